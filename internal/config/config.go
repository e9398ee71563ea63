package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orbit/isswatch/internal/geo"
)

// Placeholder defaults that must be replaced before the monitor may start.
const (
	PlaceholderEmail    = "your_email@gmail.com"
	PlaceholderPassword = "your_app_password"
)

// NightPolicy controls how a failed day/night lookup is treated.
type NightPolicy string

const (
	// NightAssumeDay logs the failure and treats the cycle as daytime.
	// This is the default: it avoids false-positive notifications on
	// partial data loss, at the cost of suppressing notifications for as
	// long as the day/night source stays broken.
	NightAssumeDay NightPolicy = "assume-day"

	// NightStrict counts the failure against the consecutive-error budget,
	// the same way a position fetch failure is counted.
	NightStrict NightPolicy = "strict"
)

// Position source selectors.
const (
	SourceAPI = "api"
	SourceTLE = "tle"
)

// Config holds every externally supplied setting. Loaded once at startup,
// passed by value to constructors, immutable for the process lifetime.
type Config struct {
	Observer       geo.Coordinate
	UTCOffsetHours float64

	Email         string
	EmailPassword string
	SMTPHost      string
	SMTPPort      int

	PositionSource string
	PositionURL    string
	SunURL         string
	TLEURL         string
	TLEMaxAge      time.Duration

	Interval             time.Duration
	ThresholdKm          float64
	MaxConsecutiveErrors int
	NightPolicy          NightPolicy

	OpsAddr string
	Render  bool
}

// Default returns the built-in defaults: the original observer location
// (Kolkata, IST) with placeholder credentials that Validate rejects.
func Default() Config {
	return Config{
		Observer:             geo.Coordinate{Lat: 22.470493, Lng: 88.307407},
		UTCOffsetHours:       5.5,
		Email:                PlaceholderEmail,
		EmailPassword:        PlaceholderPassword,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             587,
		PositionSource:       SourceAPI,
		PositionURL:          "http://api.open-notify.org/iss-now.json",
		SunURL:               "https://api.sunrise-sunset.org/json",
		TLEURL:               "https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=tle",
		TLEMaxAge:            6 * time.Hour,
		Interval:             60 * time.Second,
		ThresholdKm:          500,
		MaxConsecutiveErrors: 5,
		NightPolicy:          NightAssumeDay,
		OpsAddr:              ":9090",
		Render:               true,
	}
}

// FromEnv builds a Config from ISSWATCH_* environment variables on top of
// the defaults. Malformed numeric values fall back to the default with a
// warning; range and placeholder checks are Validate's job.
func FromEnv(logger *slog.Logger) Config {
	cfg := Default()

	cfg.Observer.Lat = envFloat(logger, "ISSWATCH_LAT", cfg.Observer.Lat)
	cfg.Observer.Lng = envFloat(logger, "ISSWATCH_LNG", cfg.Observer.Lng)
	cfg.UTCOffsetHours = envFloat(logger, "ISSWATCH_UTC_OFFSET", cfg.UTCOffsetHours)

	cfg.Email = envString("ISSWATCH_EMAIL", cfg.Email)
	cfg.EmailPassword = envString("ISSWATCH_EMAIL_PASSWORD", cfg.EmailPassword)
	cfg.SMTPHost = envString("ISSWATCH_SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt(logger, "ISSWATCH_SMTP_PORT", cfg.SMTPPort)

	cfg.PositionURL = envString("ISSWATCH_POSITION_URL", cfg.PositionURL)
	cfg.SunURL = envString("ISSWATCH_SUN_URL", cfg.SunURL)
	cfg.TLEURL = envString("ISSWATCH_TLE_URL", cfg.TLEURL)
	cfg.TLEMaxAge = envSeconds(logger, "ISSWATCH_TLE_MAX_AGE", cfg.TLEMaxAge)

	cfg.Interval = envSeconds(logger, "ISSWATCH_INTERVAL", cfg.Interval)
	cfg.ThresholdKm = envFloat(logger, "ISSWATCH_THRESHOLD_KM", cfg.ThresholdKm)
	cfg.MaxConsecutiveErrors = envInt(logger, "ISSWATCH_MAX_ERRORS", cfg.MaxConsecutiveErrors)

	if v := os.Getenv("ISSWATCH_POSITION_SOURCE"); v != "" {
		switch v {
		case SourceAPI, SourceTLE:
			cfg.PositionSource = v
		default:
			logger.Warn("invalid ISSWATCH_POSITION_SOURCE value, using default", "value", v, "default", cfg.PositionSource)
		}
	}

	if v := os.Getenv("ISSWATCH_NIGHT_POLICY"); v != "" {
		switch NightPolicy(v) {
		case NightAssumeDay, NightStrict:
			cfg.NightPolicy = NightPolicy(v)
		default:
			logger.Warn("invalid ISSWATCH_NIGHT_POLICY value, using default", "value", v, "default", string(cfg.NightPolicy))
		}
	}

	if v, ok := os.LookupEnv("ISSWATCH_OPS_ADDR"); ok {
		// Empty value disables the ops listener.
		cfg.OpsAddr = v
	}

	if v := os.Getenv("ISSWATCH_RENDER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid ISSWATCH_RENDER value, using default", "value", v, "default", cfg.Render)
		} else {
			cfg.Render = b
		}
	}

	return cfg
}

// ValidationError reports every startup configuration violation distinctly.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Violations, "; ")
}

// Validate checks the fields that must be correct before the monitor loop
// is allowed to start. Returns a *ValidationError listing every violation,
// or nil when the configuration is usable.
func (c Config) Validate() error {
	var violations []string

	if c.Email == PlaceholderEmail {
		violations = append(violations, "ISSWATCH_EMAIL is still the placeholder, set your email address")
	}
	if c.EmailPassword == PlaceholderPassword {
		violations = append(violations, "ISSWATCH_EMAIL_PASSWORD is still the placeholder, set your app password")
	}
	if c.Observer.Lat < -90 || c.Observer.Lat > 90 {
		violations = append(violations, fmt.Sprintf("invalid latitude %v: must be between -90 and 90", c.Observer.Lat))
	}
	if c.Observer.Lng < -180 || c.Observer.Lng > 180 {
		violations = append(violations, fmt.Sprintf("invalid longitude %v: must be between -180 and 180", c.Observer.Lng))
	}
	if c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14 {
		violations = append(violations, fmt.Sprintf("invalid UTC offset %v: must be between -12 and 14", c.UTCOffsetHours))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// UTCOffset returns the observer's offset as a duration.
func (c Config) UTCOffset() time.Duration {
	return time.Duration(c.UTCOffsetHours * float64(time.Hour))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(logger *slog.Logger, key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid numeric value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func envInt(logger *slog.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Warn("invalid integer value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envSeconds(logger *slog.Logger, key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Warn("invalid seconds value, using default", "key", key, "value", v, "default", fallback.Seconds())
		return fallback
	}
	return time.Duration(n) * time.Second
}
