package game

import "time"

// Clock is the world time source sent to clients in time sync messages.
// Clients place the sun from the timestamp and the configured coordinates,
// so the server never computes lighting itself.
type Clock struct {
	started time.Time
	lat     float64
	lon     float64
}

func NewClock(lat, lon float64) *Clock {
	return &Clock{started: time.Now(), lat: lat, lon: lon}
}

// Now returns the current world time in unix milliseconds.
func (c *Clock) Now() int64 {
	return time.Now().UnixMilli()
}

// Coords returns the latitude and longitude the world anchors its sky to.
func (c *Clock) Coords() (lat, lon float64) {
	return c.lat, c.lon
}

// Uptime reports how long the world has been running.
func (c *Clock) Uptime() time.Duration {
	return time.Since(c.started)
}
