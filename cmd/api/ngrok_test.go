package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectNgrokURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tunnels": [
			{"public_url": "http://abc.ngrok.io", "proto": "http"},
			{"public_url": "https://abc.ngrok.io", "proto": "https"}
		]}`))
	}))
	defer ts.Close()

	got, err := detectNgrokURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("detectNgrokURL() error: %v", err)
	}
	if got != "https://abc.ngrok.io" {
		t.Errorf("detectNgrokURL() = %q, want https tunnel", got)
	}
}
