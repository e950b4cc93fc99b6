package main

import (
	"testing"

	"github.com/MegaUnlimited-io/farmcash-public/internal/fingerprint"
)

func TestIPLookupURL(t *testing.T) {
	t.Setenv("IP_LOOKUP_URL", "")
	if got := ipLookupURL(); got != fingerprint.DefaultIPLookupURL {
		t.Fatalf("default = %q", got)
	}

	t.Setenv("IP_LOOKUP_URL", "http://127.0.0.1:9999/ip")
	if got := ipLookupURL(); got != "http://127.0.0.1:9999/ip" {
		t.Fatalf("override = %q", got)
	}
}
