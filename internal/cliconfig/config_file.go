package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML friendly types. The separator is a
// string so that "auto" and hex literals can be written.
type FileConfig struct {
	Separator    string `toml:"separator"`
	LogLevel     string `toml:"log_level"`
	Watch        *bool  `toml:"watch"`
	Debounce     string `toml:"debounce"`
	PcapOutput   string `toml:"pcap"`
	PcapPort     int    `toml:"pcap_port"`
	PcapInterval string `toml:"pcap_interval"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.pktsep/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".pktsep", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setSeparator("separator", fc.Separator, &cfg.Separator); err != nil {
		return err
	}
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("pcap", fc.PcapOutput, &cfg.PcapOutput)
	s.setInt("pcap-port", fc.PcapPort, &cfg.PcapPort)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("pcap-interval", fc.PcapInterval, &cfg.PcapInterval); err != nil {
		return err
	}
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
