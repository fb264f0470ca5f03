package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// cutoverLayout is the wall-clock "HH:MM:SS" format CutoverA/CutoverB are
// parsed with.
const cutoverLayout = "15:04:05"

// NATSConfig holds the optional external-republish target.
type NATSConfig struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

// HTTPConfig holds the optional demo REST surface's listen address.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// Config is the top-level configuration surface for the depthbook process.
type Config struct {
	Symbols        []string    `json:"symbols"`
	ChanCap        int         `json:"chan_cap"`
	ParkCap        int         `json:"park_cap"`
	SnapshotDepth  int         `json:"snapshot_depth"`
	CutoverA       string      `json:"cutover_a"`
	CutoverB       string      `json:"cutover_b"`
	OverlapSeconds int         `json:"overlap_seconds"`
	NATS           *NATSConfig `json:"nats,omitempty"`
	HTTP           *HTTPConfig `json:"http,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(filePath string) (*Config, error) {
	if filePath == "" {
		return nil, fmt.Errorf("config file path cannot be empty")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filePath, err)
	}

	return &config, nil
}

// Validate validates the top-level configuration.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols cannot be empty")
	}
	for i, s := range c.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("symbols[%d] cannot be empty", i)
		}
	}

	if c.ChanCap <= 0 {
		return fmt.Errorf("chan_cap must be positive, got %d", c.ChanCap)
	}
	if c.ParkCap <= 0 {
		return fmt.Errorf("park_cap must be positive, got %d", c.ParkCap)
	}
	if c.SnapshotDepth <= 0 {
		return fmt.Errorf("snapshot_depth must be positive, got %d", c.SnapshotDepth)
	}
	if c.OverlapSeconds < 0 {
		return fmt.Errorf("overlap_seconds cannot be negative, got %d", c.OverlapSeconds)
	}

	if _, err := c.CutoverATime(); err != nil {
		return fmt.Errorf("cutover_a: %w", err)
	}
	if _, err := c.CutoverBTime(); err != nil {
		return fmt.Errorf("cutover_b: %w", err)
	}

	if c.NATS != nil {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}
	if c.HTTP != nil {
		if err := c.HTTP.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// CutoverATime parses CutoverA as a wall-clock time-of-day.
func (c *Config) CutoverATime() (time.Time, error) {
	return time.Parse(cutoverLayout, c.CutoverA)
}

// CutoverBTime parses CutoverB as a wall-clock time-of-day.
func (c *Config) CutoverBTime() (time.Time, error) {
	return time.Parse(cutoverLayout, c.CutoverB)
}

// OverlapDuration returns OverlapSeconds as a time.Duration, defaulting to
// 3 seconds when unset.
func (c *Config) OverlapDuration() time.Duration {
	if c.OverlapSeconds == 0 {
		return 3 * time.Second
	}
	return time.Duration(c.OverlapSeconds) * time.Second
}

// Validate validates the NATS republish configuration.
func (n *NATSConfig) Validate() error {
	if n.URL == "" {
		return fmt.Errorf("nats.url cannot be empty")
	}
	if n.Subject == "" {
		return fmt.Errorf("nats.subject cannot be empty")
	}

	parsedURL, err := url.Parse(n.URL)
	if err != nil {
		return fmt.Errorf("invalid nats.url: %w", err)
	}
	if parsedURL.Scheme != "nats" {
		return fmt.Errorf("invalid nats.url scheme: expected 'nats', got '%s'", parsedURL.Scheme)
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("invalid nats.url: hostname cannot be empty")
	}

	return nil
}

// Validate validates the demo HTTP surface configuration.
func (h *HTTPConfig) Validate() error {
	if h.Addr == "" {
		return fmt.Errorf("http.addr cannot be empty")
	}
	return nil
}

