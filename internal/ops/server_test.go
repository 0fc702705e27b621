package ops

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestRouter(t *testing.T) {
	tests := []struct {
		name    string
		pinger  Pinger
		metrics bool
		path    string
		want    int
	}{
		{"healthz", nil, false, "/healthz", http.StatusOK},
		{"ready", fakePinger{}, false, "/readyz", http.StatusOK},
		{"unready", fakePinger{err: errors.New("down")}, false, "/readyz", http.StatusServiceUnavailable},
		{"metrics on", nil, true, "/metrics", http.StatusOK},
		{"metrics off", nil, false, "/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tt.pinger, tt.metrics).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}
