package fetch

//go:generate mockgen -destination=mock_gateway.go -package=fetch wlandoctor/internal/fetch Gateway

import (
	"context"

	"wlandoctor/internal/api"
)

// Gateway is the subset of the management API the fetchers use.
// *api.Client implements it.
type Gateway interface {
	Sites(ctx context.Context, orgID string) ([]api.Site, error)
	SiteClientStats(ctx context.Context, siteID, mac string) ([]api.ClientStat, error)
	SearchClients(ctx context.Context, orgID string, q api.ClientSearchQuery) (api.ClientSearchResponse, error)
	ClientEvents(ctx context.Context, orgID, mac string, q api.EventQuery) (api.EventsResponse, error)
	SiteDevices(ctx context.Context, siteID string) ([]api.Device, error)
	DeviceStats(ctx context.Context, siteID, deviceID string) (api.DeviceStats, error)
}

var _ Gateway = (*api.Client)(nil)
