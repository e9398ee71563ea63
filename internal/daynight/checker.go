// Package daynight classifies the observer's current local time as day or
// night using the sunrise-sunset.org API.
//
// Known simplification, kept from the original behavior: sunrise and sunset
// are compared by time of day only, dates are ignored. This is correct for
// same-day daylight windows, which is what the API returns for a given
// query date, but would misclassify around windows spanning midnight.
package daynight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/orbit/isswatch/internal/geo"
)

const defaultSunURL = "https://api.sunrise-sunset.org/json"

const requestTimeout = 10 * time.Second

// Checker queries sunrise/sunset times for a fixed observer location and
// decides whether a given instant is night there. Errors are returned to
// the caller; the monitor loop owns the failure policy.
type Checker struct {
	baseURL    string
	observer   geo.Coordinate
	utcOffset  time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewChecker creates a Checker for the given observer and UTC offset.
func NewChecker(baseURL string, observer geo.Coordinate, utcOffset time.Duration, logger *slog.Logger) *Checker {
	if baseURL == "" {
		baseURL = defaultSunURL
	}
	return &Checker{
		baseURL:   baseURL,
		observer:  observer,
		utcOffset: utcOffset,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// sunResponse mirrors the sunrise-sunset.org wire format with formatted=0:
// ISO8601 UTC timestamps and a status string.
type sunResponse struct {
	Status  string `json:"status"`
	Results struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"results"`
}

// IsNight fetches today's sunrise/sunset for the observer and reports
// whether now falls outside the [sunrise, sunset) daylight window, with all
// three instants shifted to the observer's UTC offset and compared by time
// of day.
func (c *Checker) IsNight(ctx context.Context, now time.Time) (bool, error) {
	sunriseUTC, sunsetUTC, err := c.fetchSunriseSunset(ctx)
	if err != nil {
		return false, err
	}

	sunrise := secondOfDay(sunriseUTC.UTC().Add(c.utcOffset))
	sunset := secondOfDay(sunsetUTC.UTC().Add(c.utcOffset))
	local := secondOfDay(now.UTC().Add(c.utcOffset))

	var night bool
	if sunrise <= sunset {
		night = local < sunrise || local >= sunset
	} else {
		// Daylight window wraps midnight (high latitudes).
		night = local >= sunset && local < sunrise
	}

	c.logger.Info("day/night status",
		"sunrise_local", clock(sunrise),
		"sunset_local", clock(sunset),
		"now_local", clock(local),
		"night", night,
	)
	return night, nil
}

// fetchSunriseSunset performs one HTTP GET with lat, lng, formatted=0 and
// parses the UTC sunrise/sunset timestamps.
func (c *Checker) fetchSunriseSunset(ctx context.Context) (time.Time, time.Time, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.observer.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(c.observer.Lng, 'f', -1, 64))
	q.Set("formatted", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fetching sunrise/sunset data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, time.Time{}, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL)
	}

	var body sunResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("decoding sunrise/sunset response: %w", err)
	}

	if body.Status != "OK" {
		return time.Time{}, time.Time{}, fmt.Errorf("sunrise/sunset API returned status %q", body.Status)
	}

	sunrise, err := time.Parse(time.RFC3339, body.Results.Sunrise)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing sunrise %q: %w", body.Results.Sunrise, err)
	}
	sunset, err := time.Parse(time.RFC3339, body.Results.Sunset)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing sunset %q: %w", body.Results.Sunset, err)
	}

	return sunrise, sunset, nil
}

// secondOfDay reduces an instant to seconds since local midnight.
func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func clock(sec int) string {
	return fmt.Sprintf("%02d:%02d", sec/3600, sec%3600/60)
}
