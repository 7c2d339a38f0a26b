package geo

import (
	"context"
	"testing"
)

func TestNoopLocator(t *testing.T) {
	l := NoopLocator{Home: "DO"}
	cases := map[string]string{
		"127.0.0.1":   "DO",
		"10.1.2.3":    "DO",
		"192.168.0.9": "DO",
		"8.8.8.8":     "",
		"::1":         "DO",
		"not-an-ip":   "",
	}
	for ip, want := range cases {
		got, err := l.Country(context.Background(), ip)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", ip, err)
		}
		if got != want {
			t.Errorf("Country(%q) = %q, want %q", ip, got, want)
		}
	}
}
