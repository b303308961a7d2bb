package fetch

import (
	"math"
	"sort"
	"strings"
	"time"

	"wlandoctor/internal/api"
	"wlandoctor/internal/model"
)

func clientRecord(s api.ClientStat, queried model.MAC, src model.Source) *model.ClientRecord {
	mac, err := model.ParseMAC(s.MAC)
	if err != nil {
		mac = queried
	}
	apMAC, _ := model.ParseMAC(first(s.APMAC, s.LastAP))

	return &model.ClientRecord{
		MAC:       mac,
		IP:        first(s.IP, s.LastIP),
		Hostname:  first(s.Hostname, s.LastHostname),
		Username:  s.Username,
		RSSI:      s.RSSI,
		SNR:       s.SNR,
		LatencyMs: s.LatencyMs,
		TxPackets: s.TxPkts,
		RxPackets: s.RxPkts,
		TxRetries: s.TxRetries,
		RxRetries: s.RxRetries,
		TxBytes:   s.TxBytes,
		RxBytes:   s.RxBytes,
		TxBps:     s.TxBps,
		RxBps:     s.RxBps,
		TxRate:    s.TxRate,
		RxRate:    s.RxRate,
		SSID:      first(s.SSID, s.LastSSID),
		Band:      s.Band,
		Channel:   s.Channel,
		VLAN:      s.VLANID.Int(),
		Security:  s.KeyMgmt,
		APMAC:     apMAC,
		APID:      s.APID,
		SiteID:    s.SiteID,
		Source:    src,
		LastSeen:  epoch(first64(s.LastSeen, s.Timestamp)),
	}
}

func eventRecord(e api.Event) model.EventRecord {
	return model.EventRecord{
		Timestamp:  epoch(e.Timestamp),
		Type:       e.Type,
		Text:       e.Text,
		Reason:     e.Reason,
		ReasonCode: e.ReasonCode,
	}
}

func apStats(d api.DeviceStats, deviceID string) *model.APStats {
	mac, _ := model.ParseMAC(d.MAC)
	out := &model.APStats{
		ID:            first(d.ID, deviceID),
		MAC:           mac,
		Name:          d.Name,
		UptimeSeconds: d.Uptime,
	}

	switch {
	case d.CPUUtil != nil:
		out.CPUPercent = d.CPUUtil
	case d.CPUStat != nil && d.CPUStat.Idle != nil:
		out.CPUPercent = model.Float(100 - *d.CPUStat.Idle)
	}

	switch {
	case d.MemoryStat != nil && d.MemoryStat.Usage != nil:
		out.MemoryPercent = d.MemoryStat.Usage
	case d.MemTotalKB > 0:
		pct := float64(d.MemUsedKB) / float64(d.MemTotalKB) * 100
		out.MemoryPercent = model.Float(math.Round(pct*10) / 10)
	}

	if d.EnvStat != nil {
		if d.EnvStat.CPUTemp != nil {
			out.TemperatureC = d.EnvStat.CPUTemp
		} else {
			out.TemperatureC = d.EnvStat.AmbientTemp
		}
	}

	for key, r := range d.RadioStat {
		if r.Disabled {
			continue
		}
		out.Radios = append(out.Radios, model.RadioStats{
			Band:        strings.TrimPrefix(key, "band_"),
			Channel:     r.Channel,
			Utilization: r.UtilAll,
			NoiseFloor:  r.NoiseFloor,
			NumClients:  r.NumClients,
		})
	}
	sort.Slice(out.Radios, func(i, j int) bool { return out.Radios[i].Band < out.Radios[j].Band })
	return out
}

func epoch(secs float64) time.Time {
	if secs <= 0 {
		return time.Time{}
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func first64(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
