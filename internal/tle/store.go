package tle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store holds the current element set for one satellite and refreshes it
// from the fetcher when it grows older than maxAge. The monitor loop is
// strictly sequential, so the store needs no locking.
type Store struct {
	fetcher   *Fetcher
	noradID   int
	maxAge    time.Duration
	logger    *slog.Logger
	now       func() time.Time
	entry     *Entry
	fetchedAt time.Time
}

// SourceURL returns the URL the store refreshes from.
func (s *Store) SourceURL() string {
	return s.fetcher.SourceURL()
}

// NewStore creates a Store that tracks the element set for noradID.
func NewStore(fetcher *Fetcher, noradID int, maxAge time.Duration, logger *slog.Logger) *Store {
	if maxAge <= 0 {
		maxAge = 6 * time.Hour
	}
	return &Store{
		fetcher: fetcher,
		noradID: noradID,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
	}
}

// Current returns a usable element set, refreshing it when stale. A failed
// refresh falls back to the stale entry when one exists; the error is only
// returned when no element set has ever been loaded.
func (s *Store) Current(ctx context.Context) (*Entry, error) {
	if s.entry != nil && s.now().Sub(s.fetchedAt) < s.maxAge {
		return s.entry, nil
	}

	entry, err := s.refresh(ctx)
	if err != nil {
		if s.entry != nil {
			s.logger.Warn("TLE refresh failed, using stale element set",
				"error", err,
				"fetched_at", s.fetchedAt.Format(time.RFC3339),
				"epoch", s.entry.Epoch.Format(time.RFC3339),
			)
			return s.entry, nil
		}
		return nil, err
	}

	s.entry = entry
	s.fetchedAt = s.now()
	s.logger.Info("loaded TLE element set",
		"norad_id", entry.NORADID,
		"name", entry.Name,
		"epoch", entry.Epoch.Format(time.RFC3339),
	)
	return s.entry, nil
}

func (s *Store) refresh(ctx context.Context) (*Entry, error) {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := Parse(bytes.NewReader(data), s.logger)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no TLE entries in response from %s", s.fetcher.SourceURL())
	}

	for i := range entries {
		if entries[i].NORADID == s.noradID {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("NORAD %d not found in response (%d entries)", s.noradID, len(entries))
}
