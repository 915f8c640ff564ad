package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PKTSEP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setSeparator("separator", os.Getenv("PKTSEP_SEPARATOR"), &cfg.Separator); err != nil {
		return err
	}
	s.setString("log-level", os.Getenv("PKTSEP_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("pcap", os.Getenv("PKTSEP_PCAP"), &cfg.PcapOutput)
	s.setBoolFromString("watch", os.Getenv("PKTSEP_WATCH"), &cfg.Watch)

	if err := s.setIntFromString("pcap-port", os.Getenv("PKTSEP_PCAP_PORT"), &cfg.PcapPort); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("PKTSEP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("pcap-interval", os.Getenv("PKTSEP_PCAP_INTERVAL"), &cfg.PcapInterval); err != nil {
		return err
	}
	return nil
}
