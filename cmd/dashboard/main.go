package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dashboard"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
	"github.com/joho/godotenv"
)

const usage = `usage: dashboard [flags] <command> [args]

commands:
  show                     resolve the location and print its weather (default)
  locations                list saved locations
  add <name> [lat lon]     save a location; without coordinates the name is geocoded
  select <id|current>      remember a location or current-location mode
  delete <id>              delete a saved location
  default <id>             make a saved location the default
  search <name>            search places by name
  prefs [-unit U] [-theme T] [-widget key=bool ...]
  radar                    print radar and satellite tile URLs

flags:
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	apiURL := fs.String("api", envOr("DASHBOARD_API_URL", "http://localhost:8080"), "dashboard API base URL")
	token := fs.String("token", os.Getenv("DASHBOARD_TOKEN"), "bearer access token")
	settingsPath := fs.String("settings", "", "settings file (default: user config dir)")
	lat := fs.String("lat", os.Getenv("DASHBOARD_LAT"), "device latitude used for current-location mode")
	lon := fs.String("lon", os.Getenv("DASHBOARD_LON"), "device longitude used for current-location mode")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if *token == "" {
		slog.Error("an access token is required (DASHBOARD_TOKEN or -token)")
		os.Exit(2)
	}

	path := *settingsPath
	if path == "" {
		p, err := dashboard.DefaultSettingsPath()
		if err != nil {
			slog.Error("cannot locate settings dir", "error", err)
			os.Exit(1)
		}
		path = p
	}

	geo, err := staticGeolocator(*lat, *lon)
	if err != nil {
		slog.Error("invalid device coordinates", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dashboard.NewClient(*apiURL, *token, nil)
	app := &cli{
		client:   client,
		resolver: dashboard.NewResolver(client, dashboard.NewFileStore(path), geo),
		out:      os.Stdout,
	}

	args := fs.Args()
	cmd := "show"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if err := app.run(ctx, cmd, args); err != nil {
		slog.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func staticGeolocator(lat, lon string) (dashboard.StaticGeolocator, error) {
	if lat == "" && lon == "" {
		return dashboard.StaticGeolocator{}, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return dashboard.StaticGeolocator{}, fmt.Errorf("latitude: %w", err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return dashboard.StaticGeolocator{}, fmt.Errorf("longitude: %w", err)
	}
	return dashboard.StaticGeolocator{Coords: &dashboard.Coordinates{Latitude: la, Longitude: lo}}, nil
}

type cli struct {
	client   *dashboard.Client
	resolver *dashboard.Resolver
	out      *os.File
}

func (a *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "show":
		if err := a.resolver.Resolve(ctx); err != nil {
			return err
		}
		return a.show(ctx)
	case "locations":
		if err := a.resolver.Resolve(ctx); err != nil {
			return err
		}
		a.printLocations()
		return nil
	case "add":
		return a.add(ctx, args)
	case "select":
		if len(args) != 1 {
			return errors.New("select needs an id or \"current\"")
		}
		if err := a.resolver.Resolve(ctx); err != nil {
			return err
		}
		if args[0] == dashboard.CurrentLocation {
			if err := a.resolver.SelectCurrent(ctx); err != nil {
				return err
			}
		} else if err := a.resolver.SelectLocation(args[0]); err != nil {
			return err
		}
		return a.show(ctx)
	case "delete":
		if len(args) != 1 {
			return errors.New("delete needs a location id")
		}
		if err := a.resolver.Resolve(ctx); err != nil {
			return err
		}
		if err := a.resolver.DeleteLocation(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Location deleted")
		return nil
	case "default":
		if len(args) != 1 {
			return errors.New("default needs a location id")
		}
		if err := a.resolver.Resolve(ctx); err != nil {
			return err
		}
		if err := a.resolver.SetDefault(ctx, args[0]); err != nil {
			return err
		}
		a.printLocations()
		return nil
	case "search":
		if len(args) == 0 {
			return errors.New("search needs a name")
		}
		results, err := a.client.Geocode(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tREGION\tCOUNTRY\tLAT\tLON")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4f\n", r.Name, r.Admin1, r.Country, r.Latitude, r.Longitude)
		}
		return w.Flush()
	case "prefs":
		return a.prefs(ctx, args)
	case "radar":
		r, err := a.client.Radar(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "radar:     %s\nsatellite: %s\n", r.RadarTileURL, r.SatelliteTileURL)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *cli) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("add needs a name")
	}
	if err := a.resolver.Resolve(ctx); err != nil {
		return err
	}

	name := args[0]
	var lat, lon float64
	switch len(args) {
	case 3:
		var err error
		if lat, err = strconv.ParseFloat(args[1], 64); err != nil {
			return fmt.Errorf("latitude: %w", err)
		}
		if lon, err = strconv.ParseFloat(args[2], 64); err != nil {
			return fmt.Errorf("longitude: %w", err)
		}
	case 1:
		results, err := a.client.Geocode(ctx, name)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("no place found for %q", name)
		}
		name, lat, lon = results[0].Name, results[0].Latitude, results[0].Longitude
	default:
		return errors.New("add takes a name and optionally both coordinates")
	}

	loc, err := a.resolver.AddLocation(ctx, name, lat, lon)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", loc.Name, loc.ID)
	return nil
}

func (a *cli) prefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	unit := fs.String("unit", "", dto.TemperatureFahrenheit+" or "+dto.TemperatureCelsius)
	theme := fs.String("theme", "", dto.ThemeLight+", "+dto.ThemeDark+" or "+dto.ThemeSystem)
	var widgets widgetFlags
	fs.Var(&widgets, "widget", "widget visibility as key=true|false (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := &dto.UpdatePreferencesRequest{
		TemperatureUnit: strings.ToUpper(*unit),
		Theme:           strings.ToUpper(*theme),
	}
	if len(widgets) > 0 {
		// Stored widget preferences are replaced as a whole, so start from
		// what the server has.
		current, err := a.client.Preferences(ctx)
		if err != nil {
			return err
		}
		merged := map[string]bool{}
		for w, on := range weather.ParseWidgetSet(current.WidgetPreferences) {
			merged[string(w)] = on
		}
		for k, v := range widgets {
			merged[k] = v
		}
		req.WidgetPreferences = merged
	}

	p, err := a.client.UpdatePreferences(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "unit=%s theme=%s widgets=%s\n", deref(p.TemperatureUnit), deref(p.Theme), deref(p.WidgetPreferences))
	return nil
}

func (a *cli) show(ctx context.Context) error {
	st := a.resolver.State()
	coords, ok := a.resolver.Coordinates()
	if !ok {
		if st.Kind == dashboard.Error {
			fmt.Fprintln(a.out, st.Message)
			return nil
		}
		fmt.Fprintln(a.out, "No location selected. Add one with: dashboard add <name>")
		return nil
	}

	label := "Current location"
	if st.Kind == dashboard.ShowingLocation {
		for _, l := range a.resolver.Locations() {
			if l.ID.String() == st.LocationID {
				label = l.Name
			}
		}
	}

	display := a.resolver.Display()
	d, err := a.client.Weather(ctx, coords.Latitude, coords.Longitude, display.Unit)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%.4f, %.4f) %s\n", label, coords.Latitude, coords.Longitude, d.Timezone)
	if d.Current != nil {
		fmt.Fprintf(a.out, "Now: %.1f%s %s\n", d.Current.Temperature, d.UnitSymbol, d.Current.Condition)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, day := range d.Daily {
		fmt.Fprintf(w, "%s\t%s\t%.0f%s / %.0f%s\n", day.Date, day.Condition, day.Max, d.UnitSymbol, day.Min, d.UnitSymbol)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ws := d.Widgets
	if display.Widgets.Enabled(weather.WidgetHourly) && len(ws.Hourly) > 0 {
		fmt.Fprint(a.out, "Hourly:")
		for _, h := range ws.Hourly {
			fmt.Fprintf(a.out, " %s %.0f%s", hourOf(h.Time), h.Temperature, d.UnitSymbol)
		}
		fmt.Fprintln(a.out)
	}
	if display.Widgets.Enabled(weather.WidgetPrecipitation) && len(ws.Precipitation) > 0 {
		fmt.Fprint(a.out, "Precipitation:")
		for _, p := range ws.Precipitation {
			fmt.Fprintf(a.out, " %s %d%%", hourOf(p.Time), p.Probability)
		}
		fmt.Fprintln(a.out)
	}
	if display.Widgets.Enabled(weather.WidgetUV) && ws.UV != nil {
		fmt.Fprintf(a.out, "UV: %.1f %s. %s\n", ws.UV.Value, ws.UV.Level, ws.UV.Advice)
	}
	if display.Widgets.Enabled(weather.WidgetWind) && ws.Wind != nil {
		fmt.Fprintf(a.out, "Wind: %.0f %s %s, gusts %.0f\n", ws.Wind.Speed, ws.Wind.Unit, ws.Wind.Compass, ws.Wind.Gusts)
	}
	if display.Widgets.Enabled(weather.WidgetAirQuality) && ws.AirQuality != nil {
		fmt.Fprintf(a.out, "Air quality: %d %s\n", ws.AirQuality.AQI, ws.AirQuality.Category)
	}
	if display.Widgets.Enabled(weather.WidgetAstronomy) && ws.Astronomy != nil {
		fmt.Fprintf(a.out, "Sunrise %s, sunset %s\n", hourOf(ws.Astronomy.Sunrise), hourOf(ws.Astronomy.Sunset))
	}
	return nil
}

func (a *cli) printLocations() {
	selected := a.resolver.State()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAT\tLON\tDEFAULT\tSELECTED")
	for _, l := range a.resolver.Locations() {
		sel := ""
		if selected.Kind == dashboard.ShowingLocation && selected.LocationID == l.ID.String() {
			sel = "*"
		}
		def := ""
		if l.IsDefault {
			def = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\t%s\n", l.ID, l.Name, l.Latitude, l.Longitude, def, sel)
	}
	w.Flush()
}

// hourOf trims an ISO local timestamp to its HH:MM part.
func hourOf(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[i+1:]
	}
	return ts
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

type widgetFlags map[string]bool

func (w *widgetFlags) String() string { return fmt.Sprint(map[string]bool(*w)) }

func (w *widgetFlags) Set(v string) error {
	key, raw, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected key=true|false, got %q", v)
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	if *w == nil {
		*w = widgetFlags{}
	}
	(*w)[key] = on
	return nil
}
