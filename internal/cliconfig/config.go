package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AutoSeparator lets the converter pick the smallest unused byte.
const AutoSeparator = -1

// DefaultPcapPort is the server port used for pcap export, the port the
// captured game server listens on.
const DefaultPcapPort = 5055

// Config holds CLI configuration for pktsep.
type Config struct {
	// Separator is a byte value 0..255 or AutoSeparator.
	Separator int
	LogLevel  string

	Watch    bool
	Debounce time.Duration

	PcapOutput   string
	PcapPort     int
	PcapInterval time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Separator:    AutoSeparator,
		LogLevel:     "info",
		Debounce:     250 * time.Millisecond,
		PcapPort:     DefaultPcapPort,
		PcapInterval: 200 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Separator < AutoSeparator || c.Separator > 255 {
		return fmt.Errorf("separator must be auto or between 0 and 255, got %d", c.Separator)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if c.PcapPort < 1 || c.PcapPort > 65535 {
		return fmt.Errorf("pcap port must be between 1 and 65535, got %d", c.PcapPort)
	}
	if c.PcapInterval < 0 {
		return fmt.Errorf("pcap interval must not be negative")
	}
	return nil
}

// ParseSeparator accepts "auto" or an integer literal such as "4" or "0x04".
func ParseSeparator(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoSeparator, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid separator %q", s)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("separator %d out of range 0..255", v)
	}
	return int(v), nil
}

// FormatSeparator is the inverse of ParseSeparator.
func FormatSeparator(v int) string {
	if v < 0 {
		return "auto"
	}
	return fmt.Sprintf("0x%02x", v)
}

// SeparatorValue adapts a separator int to pflag.Value.
type SeparatorValue int

func (s *SeparatorValue) String() string { return FormatSeparator(int(*s)) }

func (s *SeparatorValue) Set(v string) error {
	n, err := ParseSeparator(v)
	if err != nil {
		return err
	}
	*s = SeparatorValue(n)
	return nil
}

func (s *SeparatorValue) Type() string { return "byte" }

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setSeparator parses a separator string and sets it if flag not changed.
func (s *configSetter) setSeparator(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	v, err := ParseSeparator(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = v
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
