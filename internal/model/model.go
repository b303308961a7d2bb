package model

import "time"

// Source tells where a ClientRecord came from.
type Source string

const (
	SourceLive       Source = "live"
	SourceHistorical Source = "historical"
)

// ClientRecord is a read-only snapshot of a wireless client.
// Optional telemetry is nil when the backend did not report it.
type ClientRecord struct {
	MAC      MAC
	IP       string
	Hostname string
	Username string

	RSSI      *float64
	SNR       *float64
	LatencyMs *float64

	TxPackets int64
	RxPackets int64
	TxRetries int64
	RxRetries int64
	TxBytes   int64
	RxBytes   int64
	TxBps     int64
	RxBps     int64
	TxRate    float64
	RxRate    float64

	SSID     string
	Band     string
	Channel  int
	VLAN     int
	Security string

	APMAC  MAC
	APID   string
	APName string

	SiteID   string
	SiteName string

	Source   Source
	LastSeen time.Time
}

// DisplayName picks the most useful label for the client.
func (c *ClientRecord) DisplayName() string {
	if c == nil {
		return "Unknown"
	}
	if c.Hostname != "" {
		return c.Hostname
	}
	if c.Username != "" {
		return c.Username
	}
	return "Unknown"
}

// EventRecord is a timestamped client or device event.
type EventRecord struct {
	Timestamp  time.Time
	Type       string
	Text       string
	Reason     string
	ReasonCode int
}

// RadioStats is the per-band radio view of an access point.
type RadioStats struct {
	Band        string
	Channel     int
	Utilization *float64
	NoiseFloor  *float64
	NumClients  int
}

// APStats is a typed view of access point statistics.
type APStats struct {
	ID            string
	MAC           MAC
	Name          string
	UptimeSeconds *float64
	CPUPercent    *float64
	MemoryPercent *float64
	TemperatureC  *float64
	Radios        []RadioStats
}

// Radio returns the radio serving band, if reported.
func (s *APStats) Radio(band string) (RadioStats, bool) {
	if s == nil {
		return RadioStats{}, false
	}
	for _, r := range s.Radios {
		if r.Band == band {
			return r, true
		}
	}
	return RadioStats{}, false
}

// Float returns a pointer to v. Handy for optional metrics.
func Float(v float64) *float64 {
	return &v
}
