package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		jsonContent string
		expected    *Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			jsonContent: `{
				"symbols": ["BTCUSDT", "ETHUSDT"],
				"chan_cap": 256,
				"park_cap": 64,
				"snapshot_depth": 1000,
				"cutover_a": "00:00:00",
				"cutover_b": "12:00:00",
				"overlap_seconds": 3,
				"nats": {"url": "nats://localhost:4222", "subject": "depthbook.books"},
				"http": {"addr": ":8080"}
			}`,
			expected: &Config{
				Symbols:        []string{"BTCUSDT", "ETHUSDT"},
				ChanCap:        256,
				ParkCap:        64,
				SnapshotDepth:  1000,
				CutoverA:       "00:00:00",
				CutoverB:       "12:00:00",
				OverlapSeconds: 3,
				NATS:           &NATSConfig{URL: "nats://localhost:4222", Subject: "depthbook.books"},
				HTTP:           &HTTPConfig{Addr: ":8080"},
			},
			expectError: false,
		},
		{
			name: "minimal config without optional sections",
			jsonContent: `{
				"symbols": ["BTCUSDT"],
				"chan_cap": 64,
				"park_cap": 64,
				"snapshot_depth": 500,
				"cutover_a": "00:00:00",
				"cutover_b": "12:00:00"
			}`,
			expected: &Config{
				Symbols:       []string{"BTCUSDT"},
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
			},
			expectError: false,
		},
		{
			name:        "empty symbols",
			jsonContent: `{"symbols": [], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "symbols cannot be empty",
		},
		{
			name:        "blank symbol entry",
			jsonContent: `{"symbols": ["BTCUSDT", "  "], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "symbols[1] cannot be empty",
		},
		{
			name:        "non-positive chan_cap",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 0, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "chan_cap must be positive",
		},
		{
			name:        "non-positive park_cap",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": -1, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "park_cap must be positive",
		},
		{
			name:        "non-positive snapshot_depth",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 0, "cutover_a": "00:00:00", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "snapshot_depth must be positive",
		},
		{
			name:        "unparsable cutover_a",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "not-a-time", "cutover_b": "12:00:00"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "cutover_a:",
		},
		{
			name:        "unparsable cutover_b",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "noon"}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "cutover_b:",
		},
		{
			name:        "invalid NATS url",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00", "nats": {"url": "http://localhost:4222", "subject": "x"}}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "invalid nats.url scheme",
		},
		{
			name:        "invalid HTTP addr",
			jsonContent: `{"symbols": ["BTCUSDT"], "chan_cap": 64, "park_cap": 64, "snapshot_depth": 500, "cutover_a": "00:00:00", "cutover_b": "12:00:00", "http": {"addr": ""}}`,
			expected:    nil,
			expectError: true,
			errorMsg:    "http.addr cannot be empty",
		},
		{
			name:        "invalid JSON",
			jsonContent: `{"symbols": ["BTCUSDT"`,
			expected:    nil,
			expectError: true,
			errorMsg:    "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", "config-test-*.json")
			if err != nil {
				t.Fatalf("failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())

			if _, err := tmpFile.WriteString(tt.jsonContent); err != nil {
				t.Fatalf("failed to write to temp file: %v", err)
			}
			tmpFile.Close()

			result, err := LoadConfig(tmpFile.Name())

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if result == nil {
				t.Errorf("expected result but got nil")
				return
			}

			if strings.Join(result.Symbols, ",") != strings.Join(tt.expected.Symbols, ",") {
				t.Errorf("expected Symbols %v, got %v", tt.expected.Symbols, result.Symbols)
			}
			if result.ChanCap != tt.expected.ChanCap {
				t.Errorf("expected ChanCap %v, got %v", tt.expected.ChanCap, result.ChanCap)
			}
			if result.ParkCap != tt.expected.ParkCap {
				t.Errorf("expected ParkCap %v, got %v", tt.expected.ParkCap, result.ParkCap)
			}
			if result.SnapshotDepth != tt.expected.SnapshotDepth {
				t.Errorf("expected SnapshotDepth %v, got %v", tt.expected.SnapshotDepth, result.SnapshotDepth)
			}
			if result.CutoverA != tt.expected.CutoverA {
				t.Errorf("expected CutoverA %v, got %v", tt.expected.CutoverA, result.CutoverA)
			}
			if result.CutoverB != tt.expected.CutoverB {
				t.Errorf("expected CutoverB %v, got %v", tt.expected.CutoverB, result.CutoverB)
			}

			if tt.expected.NATS != nil {
				if result.NATS == nil {
					t.Errorf("expected NATS config, got nil")
				} else {
					if result.NATS.URL != tt.expected.NATS.URL {
						t.Errorf("expected NATS.URL %v, got %v", tt.expected.NATS.URL, result.NATS.URL)
					}
					if result.NATS.Subject != tt.expected.NATS.Subject {
						t.Errorf("expected NATS.Subject %v, got %v", tt.expected.NATS.Subject, result.NATS.Subject)
					}
				}
			}
			if tt.expected.HTTP != nil {
				if result.HTTP == nil {
					t.Errorf("expected HTTP config, got nil")
				} else if result.HTTP.Addr != tt.expected.HTTP.Addr {
					t.Errorf("expected HTTP.Addr %v, got %v", tt.expected.HTTP.Addr, result.HTTP.Addr)
				}
			}
		})
	}
}

func TestLoadConfig_FileErrors(t *testing.T) {
	tests := []struct {
		name        string
		filePath    string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "empty file path",
			filePath:    "",
			expectError: true,
			errorMsg:    "config file path cannot be empty",
		},
		{
			name:        "non-existent file",
			filePath:    "/non/existent/file.json",
			expectError: true,
			errorMsg:    "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := LoadConfig(tt.filePath)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				if result != nil {
					t.Errorf("expected nil result but got %v", result)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_CutoverTimes(t *testing.T) {
	c := &Config{CutoverA: "00:00:00", CutoverB: "12:30:00"}

	a, err := c.CutoverATime()
	if err != nil {
		t.Fatalf("CutoverATime: %v", err)
	}
	if a.Hour() != 0 || a.Minute() != 0 || a.Second() != 0 {
		t.Errorf("CutoverATime = %v, want midnight", a)
	}

	b, err := c.CutoverBTime()
	if err != nil {
		t.Fatalf("CutoverBTime: %v", err)
	}
	if b.Hour() != 12 || b.Minute() != 30 || b.Second() != 0 {
		t.Errorf("CutoverBTime = %v, want 12:30:00", b)
	}
}

func TestConfig_OverlapDuration(t *testing.T) {
	withDefault := &Config{}
	if got := withDefault.OverlapDuration(); got != 3*time.Second {
		t.Errorf("OverlapDuration with zero OverlapSeconds = %v, want 3s", got)
	}

	withOverride := &Config{OverlapSeconds: 10}
	if got := withOverride.OverlapDuration(); got != 10*time.Second {
		t.Errorf("OverlapDuration with OverlapSeconds=10 = %v, want 10s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: &Config{
				Symbols:       []string{"BTCUSDT"},
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
			},
			expectError: false,
		},
		{
			name: "valid config with NATS and HTTP",
			config: &Config{
				Symbols:       []string{"BTCUSDT"},
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
				NATS:          &NATSConfig{URL: "nats://localhost:4222", Subject: "depthbook.books"},
				HTTP:          &HTTPConfig{Addr: ":8080"},
			},
			expectError: false,
		},
		{
			name: "empty symbols",
			config: &Config{
				Symbols:       nil,
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
			},
			expectError: true,
			errorMsg:    "symbols cannot be empty",
		},
		{
			name: "invalid NATS config",
			config: &Config{
				Symbols:       []string{"BTCUSDT"},
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
				NATS:          &NATSConfig{URL: "", Subject: "x"},
			},
			expectError: true,
			errorMsg:    "nats.url cannot be empty",
		},
		{
			name: "invalid HTTP config",
			config: &Config{
				Symbols:       []string{"BTCUSDT"},
				ChanCap:       64,
				ParkCap:       64,
				SnapshotDepth: 500,
				CutoverA:      "00:00:00",
				CutoverB:      "12:00:00",
				HTTP:          &HTTPConfig{Addr: ""},
			},
			expectError: true,
			errorMsg:    "http.addr cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNATSConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *NATSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid",
			config:      &NATSConfig{URL: "nats://localhost:4222", Subject: "depthbook.books"},
			expectError: false,
		},
		{
			name:        "empty url",
			config:      &NATSConfig{URL: "", Subject: "depthbook.books"},
			expectError: true,
			errorMsg:    "nats.url cannot be empty",
		},
		{
			name:        "empty subject",
			config:      &NATSConfig{URL: "nats://localhost:4222", Subject: ""},
			expectError: true,
			errorMsg:    "nats.subject cannot be empty",
		},
		{
			name:        "invalid scheme",
			config:      &NATSConfig{URL: "http://localhost:4222", Subject: "depthbook.books"},
			expectError: true,
			errorMsg:    "invalid nats.url scheme",
		},
		{
			name:        "empty hostname",
			config:      &NATSConfig{URL: "nats://:4222", Subject: "depthbook.books"},
			expectError: true,
			errorMsg:    "hostname cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestHTTPConfig_Validate(t *testing.T) {
	if err := (&HTTPConfig{Addr: ":8080"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&HTTPConfig{Addr: ""}).Validate(); err == nil {
		t.Errorf("expected error for empty addr")
	}
}
