package config

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/orbit/isswatch/internal/geo"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func validConfig() Config {
	cfg := Default()
	cfg.Email = "someone@example.com"
	cfg.EmailPassword = "app-password-123"
	cfg.Observer = geo.Coordinate{Lat: 22.47, Lng: 88.31}
	return cfg
}

// TestValidateAccepts verifies a fully specified config passes validation.
func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

// TestValidateRejects covers each startup violation distinctly.
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "latitude out of range",
			mutate:  func(c *Config) { c.Observer.Lat = 95 },
			wantSub: "latitude",
		},
		{
			name:    "longitude out of range",
			mutate:  func(c *Config) { c.Observer.Lng = -200 },
			wantSub: "longitude",
		},
		{
			name:    "placeholder email",
			mutate:  func(c *Config) { c.Email = PlaceholderEmail },
			wantSub: "ISSWATCH_EMAIL",
		},
		{
			name:    "placeholder password",
			mutate:  func(c *Config) { c.EmailPassword = PlaceholderPassword },
			wantSub: "ISSWATCH_EMAIL_PASSWORD",
		},
		{
			name:    "UTC offset out of range",
			mutate:  func(c *Config) { c.UTCOffsetHours = 26 },
			wantSub: "UTC offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

// TestValidateReportsAllViolations verifies every violation is listed, not
// just the first one found.
func TestValidateReportsAllViolations(t *testing.T) {
	cfg := Default() // placeholder email + password
	cfg.Observer = geo.Coordinate{Lat: 95, Lng: -200}

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Violations) != 4 {
		t.Errorf("expected 4 violations, got %d: %v", len(verr.Violations), verr.Violations)
	}
}

// TestFromEnvMalformedFallsBack verifies malformed numeric env values keep
// the defaults instead of aborting.
func TestFromEnvMalformedFallsBack(t *testing.T) {
	t.Setenv("ISSWATCH_LAT", "not-a-number")
	t.Setenv("ISSWATCH_INTERVAL", "sixty")
	t.Setenv("ISSWATCH_NIGHT_POLICY", "bogus")

	cfg := FromEnv(testLogger)
	def := Default()
	if cfg.Observer.Lat != def.Observer.Lat {
		t.Errorf("latitude = %v, want default %v", cfg.Observer.Lat, def.Observer.Lat)
	}
	if cfg.Interval != def.Interval {
		t.Errorf("interval = %v, want default %v", cfg.Interval, def.Interval)
	}
	if cfg.NightPolicy != NightAssumeDay {
		t.Errorf("night policy = %q, want default %q", cfg.NightPolicy, NightAssumeDay)
	}
}

// TestFromEnvOverrides verifies well-formed env values take effect.
func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ISSWATCH_LAT", "-33.8688")
	t.Setenv("ISSWATCH_LNG", "151.2093")
	t.Setenv("ISSWATCH_UTC_OFFSET", "10")
	t.Setenv("ISSWATCH_NIGHT_POLICY", "strict")
	t.Setenv("ISSWATCH_POSITION_SOURCE", "tle")
	t.Setenv("ISSWATCH_RENDER", "false")

	cfg := FromEnv(testLogger)
	if cfg.Observer.Lat != -33.8688 || cfg.Observer.Lng != 151.2093 {
		t.Errorf("observer = %v, want -33.8688, 151.2093", cfg.Observer)
	}
	if cfg.NightPolicy != NightStrict {
		t.Errorf("night policy = %q, want strict", cfg.NightPolicy)
	}
	if cfg.PositionSource != SourceTLE {
		t.Errorf("position source = %q, want tle", cfg.PositionSource)
	}
	if cfg.Render {
		t.Error("render should be disabled")
	}
}
