package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
)

func TestUpstreamBreakerIgnoresCanceledCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	u := newUpstream("air-quality", srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		var out struct{}
		if err := u.getJSON(ctx, srv.URL, &out); !errors.Is(err, ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	}
	if st := u.breaker.State(); st != gobreaker.StateClosed {
		t.Fatalf("canceled calls tripped the breaker: %v", st)
	}

	for i := 0; i < 6; i++ {
		var out struct{}
		u.getJSON(context.Background(), srv.URL, &out)
	}
	if st := u.breaker.State(); st != gobreaker.StateOpen {
		t.Fatalf("expected repeated upstream failures to open the breaker, got %v", st)
	}
}
