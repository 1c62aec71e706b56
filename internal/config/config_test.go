package config

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "minimal valid",
			cfg:  Config{Port: 8080, Period: time.Second},
		},
		{
			name: "valid with connect",
			cfg:  Config{Port: 8080, Period: time.Second, Connect: "127.0.0.1:8081"},
		},
		{
			name:    "zero period",
			cfg:     Config{Port: 8080},
			wantErr: true,
		},
		{
			name:    "negative period",
			cfg:     Config{Port: 8080, Period: -time.Second},
			wantErr: true,
		},
		{
			name:    "connect without port",
			cfg:     Config{Port: 8080, Period: time.Second, Connect: "127.0.0.1"},
			wantErr: true,
		},
		{
			name:    "connect with bad port",
			cfg:     Config{Port: 8080, Period: time.Second, Connect: "127.0.0.1:notaport"},
			wantErr: true,
		},
		{
			name:    "connect with empty host",
			cfg:     Config{Port: 8080, Period: time.Second, Connect: ":8081"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ListenAddr(t *testing.T) {
	cfg := Config{Port: 8080}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8080" {
		t.Errorf("ListenAddr() = %q, want 127.0.0.1:8080", got)
	}

	cfg = Config{Host: "0.0.0.0", Port: 9000}
	if got := cfg.ListenAddr(); got != "0.0.0.0:9000" {
		t.Errorf("ListenAddr() = %q, want 0.0.0.0:9000", got)
	}
}

func TestValidateAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid", "127.0.0.1:8080", false},
		{"valid hostname", "gossip.local:8080", false},
		{"missing port", "127.0.0.1", true},
		{"empty", "", true},
		{"port out of range", "127.0.0.1:70000", true},
		{"port zero", "127.0.0.1:0", true},
		{"non-numeric port", "127.0.0.1:abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}
