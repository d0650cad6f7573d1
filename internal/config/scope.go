package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kiliwatch/tzscan/internal/scan"
)

// scopeFile is the YAML shape of the operator-edited scope config.
type scopeFile struct {
	Keywords        []string `yaml:"keywords"`
	Locations       []string `yaml:"locations"`
	DefaultLocation string   `yaml:"default_location"`
	WindowHours     int      `yaml:"window_hours"`
	Cutoff          string   `yaml:"cutoff"`
	Timezone        string   `yaml:"timezone"`
	MaxItems        int      `yaml:"max_items"`
	Queries         []string `yaml:"queries"`
	Feeds           []string `yaml:"feeds"`
	AdvisoryPages   []string `yaml:"advisory_pages"`
}

// ScopeConfig is the parsed scope: the pure filter scope plus the source
// registry inputs and presentation settings. It is stateless; editing the
// YAML changes the next run with no migration.
type ScopeConfig struct {
	Scan            scan.Scope
	Location        *time.Location
	DefaultLocation string
	MaxItems        int
	Queries         []string
	Feeds           []string
	AdvisoryPages   []string
}

// LoadScope reads the YAML scope file.
func LoadScope(path string) (*ScopeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scope config: %w", err)
	}
	defer f.Close()
	return ParseScope(f)
}

// ParseScope decodes and validates a scope config. Empty keyword or
// location sets are allowed here; the filter degrades them to
// "reject everything" rather than failing the run.
func ParseScope(r io.Reader) (*ScopeConfig, error) {
	var sf scopeFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decoding scope config: %w", err)
	}

	tz := sf.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", tz, err)
	}

	window := sf.WindowHours
	if window <= 0 {
		window = 72
	}

	var cutoff time.Time
	if s := strings.TrimSpace(sf.Cutoff); s != "" {
		cutoff, err = parseCutoff(s, loc)
		if err != nil {
			return nil, err
		}
	}

	defaultLocation := sf.DefaultLocation
	if defaultLocation == "" {
		defaultLocation = "Northern TZ"
	}

	return &ScopeConfig{
		Scan: scan.Scope{
			Keywords:  sf.Keywords,
			Locations: sf.Locations,
			Window:    time.Duration(window) * time.Hour,
			Cutoff:    cutoff,
		},
		Location:        loc,
		DefaultLocation: defaultLocation,
		MaxItems:        sf.MaxItems,
		Queries:         sf.Queries,
		Feeds:           sf.Feeds,
		AdvisoryPages:   sf.AdvisoryPages,
	}, nil
}

// parseCutoff accepts RFC3339 or a zone-less local timestamp interpreted
// in the configured timezone.
func parseCutoff(s string, loc *time.Location) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return ts, nil
	}
	if ts, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("unparseable cutoff %q", s)
}
