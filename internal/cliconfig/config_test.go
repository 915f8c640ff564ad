package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Separator != AutoSeparator {
		t.Errorf("Separator = %v, want auto", cfg.Separator)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Debounce)
	}
	if cfg.PcapPort != DefaultPcapPort {
		t.Errorf("PcapPort = %v, want %v", cfg.PcapPort, DefaultPcapPort)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "explicit separator zero", mutate: func(c *Config) { c.Separator = 0 }},
		{name: "explicit separator 255", mutate: func(c *Config) { c.Separator = 255 }},
		{name: "separator too large", mutate: func(c *Config) { c.Separator = 256 }, wantErr: true},
		{name: "separator below auto", mutate: func(c *Config) { c.Separator = -2 }, wantErr: true},
		{name: "uppercase level", mutate: func(c *Config) { c.LogLevel = "DEBUG" }},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "zero debounce", mutate: func(c *Config) { c.Debounce = 0 }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.PcapPort = 70000 }, wantErr: true},
		{name: "negative interval", mutate: func(c *Config) { c.PcapInterval = -time.Second }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.PcapInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSeparator(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "auto", want: AutoSeparator},
		{in: "AUTO", want: AutoSeparator},
		{in: "", want: AutoSeparator},
		{in: "0", want: 0},
		{in: "4", want: 4},
		{in: "0x7f", want: 0x7f},
		{in: " 0b11 ", want: 3},
		{in: "256", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "four", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeparator(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeparator(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSeparator(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeparatorValue(t *testing.T) {
	cfg := DefaultConfig()
	v := (*SeparatorValue)(&cfg.Separator)

	if v.String() != "auto" {
		t.Errorf("String() = %q, want auto", v.String())
	}
	if err := v.Set("0x04"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Separator != 4 {
		t.Errorf("Separator = %d, want 4", cfg.Separator)
	}
	if v.String() != "0x04" {
		t.Errorf("String() = %q, want 0x04", v.String())
	}
	if err := v.Set("300"); err == nil {
		t.Error("Set(300) expected error")
	}
	if cfg.Separator != 4 {
		t.Errorf("failed Set changed Separator to %d", cfg.Separator)
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("PKTSEP_LOG_LEVEL", "warn")
	t.Setenv("PKTSEP_DEBOUNCE", "2s")

	cfg := DefaultConfig()
	// --debounce was given on the command line.
	cfg.Debounce = 5 * time.Second
	changed := map[string]bool{"debounce": true}

	fc := FileConfig{
		Separator: "0x10",
		LogLevel:  "debug",
		Debounce:  "1s",
	}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.Debounce != 5*time.Second {
		t.Errorf("Debounce = %v, want flag value 5s", cfg.Debounce)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want env value warn", cfg.LogLevel)
	}
	if cfg.Separator != 0x10 {
		t.Errorf("Separator = %v, want file value 0x10", cfg.Separator)
	}
	if cfg.PcapPort != DefaultPcapPort {
		t.Errorf("PcapPort = %v, want default", cfg.PcapPort)
	}
}
