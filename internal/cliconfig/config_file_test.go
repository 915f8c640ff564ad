package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Separator:    "0x04",
				LogLevel:     "debug",
				Watch:        &trueVal,
				Debounce:     "1s",
				PcapOutput:   "/tmp/out.pcap",
				PcapPort:     27015,
				PcapInterval: "10ms",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Separator:    4,
				LogLevel:     "debug",
				Watch:        true,
				Debounce:     time.Second,
				PcapOutput:   "/tmp/out.pcap",
				PcapPort:     27015,
				PcapInterval: 10 * time.Millisecond,
			},
		},
		{
			name:       "separator zero is a valid value",
			fileConfig: FileConfig{Separator: "0"},
			changed:    map[string]bool{},
			initial:    Config{Separator: AutoSeparator},
			expected:   Config{Separator: 0},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Separator: "7",
				LogLevel:  "error",
			},
			changed: map[string]bool{"separator": true},
			initial: Config{
				Separator: 9,
				LogLevel:  "info",
			},
			expected: Config{
				Separator: 9, // unchanged because flag was set
				LogLevel:  "error",
			},
		},
		{
			name:       "explicit false overrides true",
			fileConfig: FileConfig{Watch: &falseVal},
			changed:    map[string]bool{},
			initial:    Config{Watch: true},
			expected:   Config{Watch: false},
		},
		{
			name:       "empty file config changes nothing",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{Debounce: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "returns error for invalid separator",
			fileConfig: FileConfig{Separator: "0x100"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
separator = "auto"
log_level = "warn"
watch = true
debounce = "500ms"
pcap = "capture.pcap"
pcap_port = 5056
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Separator != "auto" {
		t.Errorf("Separator = %v, want auto", fc.Separator)
	}
	if fc.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn", fc.LogLevel)
	}
	if fc.Watch == nil || !*fc.Watch {
		t.Errorf("Watch = %v, want true", fc.Watch)
	}
	if fc.Debounce != "500ms" {
		t.Errorf("Debounce = %v, want 500ms", fc.Debounce)
	}
	if fc.PcapOutput != "capture.pcap" {
		t.Errorf("PcapOutput = %v, want capture.pcap", fc.PcapOutput)
	}
	if fc.PcapPort != 5056 {
		t.Errorf("PcapPort = %v, want 5056", fc.PcapPort)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
separator = 4
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".pktsep") {
		t.Errorf("DefaultConfigPath() = %v, should contain .pktsep", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
