package notify

import (
	"fmt"
	"time"

	"github.com/orbit/isswatch/internal/geo"
)

// Subject is the notification email subject line.
const Subject = "ISS overhead - look up!"

// ComposeBody renders the plain-text notification message.
func ComposeBody(distanceKm float64, at time.Time, observer geo.Coordinate) string {
	return fmt.Sprintf(
		"The International Space Station is %.2f km above you!\n"+
			"Go outside and look up! You might see it passing by!\n\n"+
			"Time: %s\n"+
			"Position: %s\n",
		distanceKm,
		at.Format("2006-01-02 15:04:05"),
		observer,
	)
}
