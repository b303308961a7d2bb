// Package fetch gathers client, event and access point data from the
// management API. Failures never abort a run: they are logged, the data is
// treated as absent and the missing piece is recorded as a data gap.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wlandoctor/internal/api"
	"wlandoctor/internal/model"
)

const (
	DefaultCallTimeout = 10 * time.Second
	eventLimit         = 100
	maxParallelSites   = 8
)

// Fetcher is scoped to a single troubleshooting run.
type Fetcher struct {
	gw      Gateway
	orgID   string
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu   sync.Mutex
	gaps []string
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

func WithCallTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func New(gw Gateway, orgID string, log zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		gw:      gw,
		orgID:   orgID,
		timeout: DefaultCallTimeout,
		now:     time.Now,
		log:     log.With().Str("component", "fetch").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Gaps lists the data that could not be fetched, in the order it was missed.
func (f *Fetcher) Gaps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.gaps...)
}

func (f *Fetcher) gap(what string, err error) {
	f.log.Warn().Err(err).Str("data", what).Msg("Data unavailable")
	f.mu.Lock()
	f.gaps = append(f.gaps, what)
	f.mu.Unlock()
}

func (f *Fetcher) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.timeout)
}

// ClientInfo looks the client up in live per-site stats first and falls back
// to the historical search over lookback. It returns nil when neither knows
// the client.
func (f *Fetcher) ClientInfo(ctx context.Context, mac model.MAC, lookback time.Duration) *model.ClientRecord {
	if rec := f.liveClient(ctx, mac); rec != nil {
		return rec
	}
	if ctx.Err() != nil {
		return nil
	}
	f.log.Debug().Str("mac", mac.String()).Msg("Client not in live data, searching history")
	return f.historicalClient(ctx, mac, lookback)
}

func (f *Fetcher) liveClient(ctx context.Context, mac model.MAC) *model.ClientRecord {
	cctx, cancel := f.call(ctx)
	sites, err := f.gw.Sites(cctx, f.orgID)
	cancel()
	if err != nil {
		f.gap("sites", err)
		return nil
	}
	f.log.Debug().Int("sites", len(sites)).Msg("Searching sites for live client")

	matches := make([]*api.ClientStat, len(sites))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSites)
	for i, site := range sites {
		if site.ID == "" {
			continue
		}
		g.Go(func() error {
			cctx, cancel := f.call(gctx)
			defer cancel()

			stats, err := f.gw.SiteClientStats(cctx, site.ID, mac.Compact())
			if err != nil {
				failed.Add(1)
				f.log.Debug().Err(err).Str("site_id", site.ID).Msg("Live client lookup failed")
				return nil
			}
			for j := range stats {
				if model.SameMAC(stats[j].MAC, string(mac)) {
					matches[i] = &stats[j]
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		f.gap("live client stats", fmt.Errorf("%d of %d sites failed", n, len(sites)))
	}

	for i, m := range matches {
		if m == nil {
			continue
		}
		rec := clientRecord(*m, mac, model.SourceLive)
		rec.SiteID = sites[i].ID
		rec.SiteName = sites[i].Name
		f.log.Debug().Str("site", sites[i].Name).Msg("Client found in live data")
		f.attachAP(ctx, rec)
		return rec
	}
	return nil
}

func (f *Fetcher) historicalClient(ctx context.Context, mac model.MAC, lookback time.Duration) *model.ClientRecord {
	end := f.now()
	cctx, cancel := f.call(ctx)
	defer cancel()

	resp, err := f.gw.SearchClients(cctx, f.orgID, api.ClientSearchQuery{
		MAC:   mac.Compact(),
		Start: end.Add(-lookback),
		End:   end,
		Limit: 1,
	})
	if err != nil {
		f.gap("historical client search", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	rec := clientRecord(resp.Results[0], mac, model.SourceHistorical)
	f.attachAP(ctx, rec)
	return rec
}

func (f *Fetcher) attachAP(ctx context.Context, rec *model.ClientRecord) {
	if rec.SiteID == "" || rec.APMAC == "" {
		return
	}
	name, id, ok := f.ResolveAP(ctx, rec.SiteID, rec.APMAC)
	if !ok {
		return
	}
	rec.APName = name
	if rec.APID == "" {
		rec.APID = id
	}
}

// ResolveAP finds an access point in the site inventory by MAC.
func (f *Fetcher) ResolveAP(ctx context.Context, siteID string, apMAC model.MAC) (name, deviceID string, ok bool) {
	cctx, cancel := f.call(ctx)
	defer cancel()

	devices, err := f.gw.SiteDevices(cctx, siteID)
	if err != nil {
		f.gap("site devices", err)
		return "", "", false
	}
	for _, d := range devices {
		if d.Type == "ap" && model.SameMAC(d.MAC, string(apMAC)) {
			name = d.Name
			if name == "" {
				name = "Unknown"
			}
			return name, d.ID, true
		}
	}
	f.log.Debug().Str("ap_mac", apMAC.String()).Msg("No matching AP in site inventory")
	return "", "", false
}

// ClientEvents returns the client's events in [now-window, now], at most 100.
func (f *Fetcher) ClientEvents(ctx context.Context, mac model.MAC, window time.Duration) []model.EventRecord {
	end := f.now()
	cctx, cancel := f.call(ctx)
	defer cancel()

	resp, err := f.gw.ClientEvents(cctx, f.orgID, mac.Compact(), api.EventQuery{
		Start: end.Add(-window),
		End:   end,
		Limit: eventLimit,
	})
	if err != nil {
		f.gap("client events", err)
		return nil
	}

	events := make([]model.EventRecord, 0, len(resp.Results))
	for _, e := range resp.Results {
		events = append(events, eventRecord(e))
	}
	return events
}

// APStats fetches access point statistics by device id.
func (f *Fetcher) APStats(ctx context.Context, siteID, deviceID string) *model.APStats {
	if siteID == "" || deviceID == "" {
		f.gap("AP stats", fmt.Errorf("missing site or device id"))
		return nil
	}
	cctx, cancel := f.call(ctx)
	defer cancel()

	stats, err := f.gw.DeviceStats(cctx, siteID, deviceID)
	if err != nil {
		f.gap("AP stats", err)
		return nil
	}
	return apStats(stats, deviceID)
}
