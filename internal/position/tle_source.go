package position

import (
	"context"
	"log/slog"
	"time"

	"github.com/orbit/isswatch/internal/geo"
	"github.com/orbit/isswatch/internal/tle"
)

// TLESource computes the satellite position locally via SGP4 instead of
// asking a position API. The TLE store refreshes the element set when it
// goes stale; the propagator is rebuilt only when the epoch changes.
type TLESource struct {
	store  *tle.Store
	logger *slog.Logger
	now    func() time.Time

	prop      *SGP4Propagator
	propEpoch time.Time
}

// NewTLESource creates a TLESource backed by the given store.
func NewTLESource(store *tle.Store, logger *slog.Logger) *TLESource {
	return &TLESource{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Current returns the sub-satellite point for the current instant.
func (s *TLESource) Current(ctx context.Context) (geo.Coordinate, error) {
	entry, err := s.store.Current(ctx)
	if err != nil {
		return geo.Coordinate{}, &FetchError{URL: s.store.SourceURL(), Err: err}
	}

	if s.prop == nil || !entry.Epoch.Equal(s.propEpoch) {
		prop, err := NewSGP4Propagator(entry.Line1, entry.Line2, entry.NORADID)
		if err != nil {
			return geo.Coordinate{}, &ParseError{Detail: "initializing propagator", Err: err}
		}
		s.prop = prop
		s.propEpoch = entry.Epoch
	}

	coord, altKm, err := s.prop.Subpoint(s.now())
	if err != nil {
		return geo.Coordinate{}, &ParseError{Detail: "propagating", Err: err}
	}

	s.logger.Debug("propagated satellite position",
		"lat", coord.Lat,
		"lng", coord.Lng,
		"alt_km", altKm,
		"epoch", entry.Epoch.Format(time.RFC3339),
	)
	return coord, nil
}
