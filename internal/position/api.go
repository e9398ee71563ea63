package position

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/orbit/isswatch/internal/geo"
)

const defaultAPIURL = "http://api.open-notify.org/iss-now.json"

// requestTimeout bounds each position request.
const requestTimeout = 10 * time.Second

// APISource fetches the current position from the open-notify service.
type APISource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAPISource creates an APISource for the given endpoint URL.
func NewAPISource(url string, logger *slog.Logger) *APISource {
	if url == "" {
		url = defaultAPIURL
	}
	return &APISource{
		url: url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// issNowResponse mirrors the open-notify wire format. The coordinates are
// string-encoded floats.
type issNowResponse struct {
	ISSPosition struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"iss_position"`
}

// Current performs one HTTP GET and parses the satellite coordinates.
// Transport failures and non-200 responses come back as *FetchError,
// malformed bodies as *ParseError.
func (s *APISource) Current(ctx context.Context) (geo.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return geo.Coordinate{}, &FetchError{URL: s.url, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return geo.Coordinate{}, &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, &FetchError{URL: s.url, Err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}

	var body issNowResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Coordinate{}, &ParseError{Detail: "decoding body", Err: err}
	}

	lat, err := strconv.ParseFloat(body.ISSPosition.Latitude, 64)
	if err != nil {
		return geo.Coordinate{}, &ParseError{Detail: fmt.Sprintf("latitude %q is not numeric", body.ISSPosition.Latitude), Err: err}
	}
	lng, err := strconv.ParseFloat(body.ISSPosition.Longitude, 64)
	if err != nil {
		return geo.Coordinate{}, &ParseError{Detail: fmt.Sprintf("longitude %q is not numeric", body.ISSPosition.Longitude), Err: err}
	}

	s.logger.Debug("fetched satellite position", "lat", lat, "lng", lng)
	return geo.Coordinate{Lat: lat, Lng: lng}, nil
}
