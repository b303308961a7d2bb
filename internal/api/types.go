package api

import (
	"encoding/json"
	"strconv"
)

// Self is the authenticated principal behind the token.
type Self struct {
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Privileges []Privilege `json:"privileges"`
}

// Privilege grants a role on an org or site.
type Privilege struct {
	Scope  string `json:"scope"`
	Role   string `json:"role"`
	OrgID  string `json:"org_id"`
	SiteID string `json:"site_id,omitempty"`
	Name   string `json:"name"`
}

// OrgRef is an organization reachable through the token's privileges.
type OrgRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// Orgs returns the distinct organizations in the privilege list, in order.
func (s Self) Orgs() []OrgRef {
	seen := make(map[string]struct{})
	var out []OrgRef
	for _, p := range s.Privileges {
		if p.OrgID == "" {
			continue
		}
		if _, ok := seen[p.OrgID]; ok {
			continue
		}
		seen[p.OrgID] = struct{}{}
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		out = append(out, OrgRef{ID: p.OrgID, Name: name, Role: p.Role, Scope: p.Scope})
	}
	return out
}

// Org is an organization record.
type Org struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Site is a physical location within an organization.
type Site struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OrgID    string `json:"org_id"`
	Timezone string `json:"timezone,omitempty"`
}

// ClientStat covers both live client stats and historical search results.
// Historical results carry last_* fields instead of the live ones.
type ClientStat struct {
	MAC      string `json:"mac"`
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	Username string `json:"username"`

	RSSI      *float64 `json:"rssi"`
	SNR       *float64 `json:"snr"`
	LatencyMs *float64 `json:"latency_ms"`

	TxPkts    int64   `json:"tx_pkts"`
	RxPkts    int64   `json:"rx_pkts"`
	TxRetries int64   `json:"tx_retries"`
	RxRetries int64   `json:"rx_retries"`
	TxBytes   int64   `json:"tx_bytes"`
	RxBytes   int64   `json:"rx_bytes"`
	TxBps     int64   `json:"tx_bps"`
	RxBps     int64   `json:"rx_bps"`
	TxRate    float64 `json:"tx_rate"`
	RxRate    float64 `json:"rx_rate"`

	SSID    string     `json:"ssid"`
	Band    string     `json:"band"`
	Channel int        `json:"channel"`
	VLANID  FlexString `json:"vlan_id"`
	KeyMgmt string     `json:"key_mgmt"`

	APMAC    string  `json:"ap_mac"`
	APID     string  `json:"ap_id"`
	SiteID   string  `json:"site_id"`
	LastSeen float64 `json:"last_seen"`

	LastIP       string  `json:"last_ip"`
	LastHostname string  `json:"last_hostname"`
	LastSSID     string  `json:"last_ssid"`
	LastAP       string  `json:"last_ap"`
	Timestamp    float64 `json:"timestamp"`
}

// ClientSearchResponse is the paged result of an org client search.
type ClientSearchResponse struct {
	Results []ClientStat `json:"results"`
	Limit   int          `json:"limit"`
	Start   int64        `json:"start"`
	End     int64        `json:"end"`
	Total   int          `json:"total"`
}

// Event is a client event as reported by the backend.
type Event struct {
	Timestamp  float64 `json:"timestamp"`
	Type       string  `json:"type"`
	Text       string  `json:"text"`
	Reason     string  `json:"reason"`
	ReasonCode int     `json:"reason_code"`
	APMAC      string  `json:"ap"`
	SSID       string  `json:"ssid"`
}

// EventsResponse holds client events. The backend answers either with a
// paged object or a bare array.
type EventsResponse struct {
	Results []Event `json:"results"`
	Limit   int     `json:"limit"`
	Start   int64   `json:"start"`
	End     int64   `json:"end"`
	Next    string  `json:"next,omitempty"`
}

func (r *EventsResponse) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Results)
	}
	type plain EventsResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = EventsResponse(p)
	return nil
}

// Device is an entry in a site's inventory.
type Device struct {
	ID     string `json:"id"`
	MAC    string `json:"mac"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Model  string `json:"model"`
	SiteID string `json:"site_id"`
}

// DeviceStats is the stats document of a single device.
type DeviceStats struct {
	ID     string `json:"id"`
	MAC    string `json:"mac"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`

	Uptime     *float64    `json:"uptime"`
	CPUUtil    *float64    `json:"cpu_util"`
	CPUStat    *CPUStat    `json:"cpu_stat"`
	MemoryStat *MemoryStat `json:"memory_stat"`
	MemUsedKB  int64       `json:"mem_used_kb"`
	MemTotalKB int64       `json:"mem_total_kb"`
	EnvStat    *EnvStat    `json:"env_stat"`

	RadioStat map[string]RadioStat `json:"radio_stat"`
}

type CPUStat struct {
	Idle *float64 `json:"idle"`
}

type MemoryStat struct {
	Usage *float64 `json:"usage"`
}

type EnvStat struct {
	CPUTemp     *float64 `json:"cpu_temp"`
	AmbientTemp *float64 `json:"ambient_temp"`
}

type RadioStat struct {
	Channel    int      `json:"channel"`
	NumClients int      `json:"num_clients"`
	UtilAll    *float64 `json:"util_all"`
	NoiseFloor *float64 `json:"noise_floor"`
	Disabled   bool     `json:"disabled"`
}

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Int returns the numeric value, 0 when empty or not a number.
func (f FlexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}
