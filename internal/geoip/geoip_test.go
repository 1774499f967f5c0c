package geoip

import "testing"

func TestCountryCode_Disabled(t *testing.T) {
	r := NewResolver()
	if err := r.Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.Enabled() {
		t.Error("Enabled = true for empty path")
	}

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", "LOCAL"},
		{"10.1.2.3", "LOCAL"},
		{"192.168.1.50", "LOCAL"},
		{"fe80::1", "LOCAL"},
		{"8.8.8.8", ""}, // disabled, no database
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := r.CountryCode(tt.ip); got != tt.want {
			t.Errorf("CountryCode(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestInit_MissingDatabase(t *testing.T) {
	r := NewResolver()
	if err := r.Init("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatal("Init should fail for missing database file")
	}
	if r.Enabled() {
		t.Error("Enabled = true after failed Init")
	}
}
