// Package render draws the terminal status view: a startup banner and a
// per-cycle ASCII world map with the observer and satellite positions.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/orbit/isswatch/internal/geo"
	"github.com/orbit/isswatch/internal/monitor"
)

const (
	mapWidth  = 60
	mapHeight = 15

	observerMark  = 'H'
	satelliteMark = '*'
	bothMark      = '@'
	emptyMark     = '.'
)

const banner = `
  ___ ____ ____   __        ___  _____ ____ _   _
 |_ _/ ___/ ___|  \ \      / / \|_   _/ ___| | | |
  | |\___ \___ \   \ \ /\ / / _ \ | || |   | |_| |
  | | ___) |__) |   \ V  V / ___ \| || |___|  _  |
 |___|____/____/     \_/\_/_/   \_\_| \____|_| |_|
`

// Console writes the status view to a writer. Render failures are silently
// ignored: display must never affect the monitor loop.
type Console struct {
	out      io.Writer
	observer geo.Coordinate
	email    string
}

// NewConsole creates a Console renderer for the given observer.
func NewConsole(out io.Writer, observer geo.Coordinate, email string) *Console {
	return &Console{
		out:      out,
		observer: observer,
		email:    email,
	}
}

// Banner prints the startup header with the monitored position.
func (c *Console) Banner() {
	fmt.Fprintf(c.out, "%s\n", banner)
	fmt.Fprintf(c.out, "Monitoring position: %s\n", c.observer)
	fmt.Fprintf(c.out, "Notification email:  %s\n\n", c.email)
}

// Render draws one cycle's sighting: the world map, the distance and
// direction lines, and the condition summary.
func (c *Console) Render(s monitor.Sighting, notified bool) {
	fmt.Fprintln(c.out, "Observer vs satellite position:")
	fmt.Fprint(c.out, worldMap(c.observer, s.Satellite))

	fmt.Fprintf(c.out, "\nObserver:  %s\n", c.observer)
	fmt.Fprintf(c.out, "Satellite: %s\n", s.Satellite)
	fmt.Fprintf(c.out, "Distance:  %.2f km\n", s.DistanceKm)
	fmt.Fprintf(c.out, "Direction: %s\n", direction(c.observer, s.Satellite))

	fmt.Fprintf(c.out, "\nNight:    %s\n", yesNo(s.Night))
	fmt.Fprintf(c.out, "Overhead: %s\n", yesNo(s.Overhead))
	fmt.Fprintf(c.out, "Notified: %s\n\n", yesNo(notified))
}

// worldMap places both coordinates on a mapWidth x mapHeight grid.
func worldMap(observer, satellite geo.Coordinate) string {
	obsX, obsY := cell(observer)
	satX, satY := cell(satellite)

	var b strings.Builder
	for y := 0; y < mapHeight; y++ {
		for x := 0; x < mapWidth; x++ {
			switch {
			case x == obsX && y == obsY && x == satX && y == satY:
				b.WriteRune(bothMark)
			case x == obsX && y == obsY:
				b.WriteRune(observerMark)
			case x == satX && y == satY:
				b.WriteRune(satelliteMark)
			default:
				b.WriteRune(emptyMark)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// cell maps a coordinate into grid indices. Latitude is inverted so north
// is at the top.
func cell(c geo.Coordinate) (x, y int) {
	latRatio := (c.Lat + 90) / 180
	lngRatio := (c.Lng + 180) / 360

	x = int(lngRatio * (mapWidth - 1))
	y = int((1 - latRatio) * (mapHeight - 1))
	return x, y
}

// direction describes where the satellite sits relative to the observer,
// with a 0.1 degree threshold to suppress noise.
func direction(observer, satellite geo.Coordinate) string {
	const threshold = 0.1

	var parts []string
	latDiff := satellite.Lat - observer.Lat
	lngDiff := satellite.Lng - observer.Lng

	if math.Abs(latDiff) > threshold {
		if latDiff > 0 {
			parts = append(parts, "North")
		} else {
			parts = append(parts, "South")
		}
	}
	if math.Abs(lngDiff) > threshold {
		if lngDiff > 0 {
			parts = append(parts, "East")
		} else {
			parts = append(parts, "West")
		}
	}

	if len(parts) == 0 {
		return "Directly overhead"
	}
	return strings.Join(parts, "-")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
