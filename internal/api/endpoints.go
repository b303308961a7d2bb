package api

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Self fetches the principal that owns the token.
func (c *Client) Self(ctx context.Context) (Self, error) {
	var resp Self
	if err := c.get(ctx, "/self", nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Org fetches one organization.
func (c *Client) Org(ctx context.Context, orgID string) (Org, error) {
	var resp Org
	if err := c.get(ctx, "/orgs/"+url.PathEscape(orgID), nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Sites lists the sites of an organization.
func (c *Client) Sites(ctx context.Context, orgID string) ([]Site, error) {
	var resp []Site
	if err := c.get(ctx, "/orgs/"+url.PathEscape(orgID)+"/sites", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SiteClientStats returns live client stats of a site filtered by MAC.
func (c *Client) SiteClientStats(ctx context.Context, siteID, mac string) ([]ClientStat, error) {
	q := url.Values{}
	q.Set("mac", mac)
	var resp []ClientStat
	if err := c.get(ctx, "/sites/"+url.PathEscape(siteID)+"/stats/clients", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ClientSearchQuery selects historical client sessions.
type ClientSearchQuery struct {
	MAC   string
	Start time.Time
	End   time.Time
	Limit int
}

func (q ClientSearchQuery) values() url.Values {
	v := url.Values{}
	if q.MAC != "" {
		v.Set("mac", q.MAC)
	}
	if !q.Start.IsZero() {
		v.Set("start", strconv.FormatInt(q.Start.Unix(), 10))
	}
	if !q.End.IsZero() {
		v.Set("end", strconv.FormatInt(q.End.Unix(), 10))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// SearchClients queries the organization's historical client sessions.
func (c *Client) SearchClients(ctx context.Context, orgID string, q ClientSearchQuery) (ClientSearchResponse, error) {
	var resp ClientSearchResponse
	if err := c.get(ctx, "/orgs/"+url.PathEscape(orgID)+"/clients/search", q.values(), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// EventQuery selects client events in a time range.
type EventQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

// ClientEvents lists events of one client in an organization.
func (c *Client) ClientEvents(ctx context.Context, orgID, mac string, q EventQuery) (EventsResponse, error) {
	v := ClientSearchQuery{Start: q.Start, End: q.End, Limit: q.Limit}.values()
	var resp EventsResponse
	path := "/orgs/" + url.PathEscape(orgID) + "/clients/" + url.PathEscape(mac) + "/events"
	if err := c.get(ctx, path, v, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// SiteDevices lists the device inventory of a site.
func (c *Client) SiteDevices(ctx context.Context, siteID string) ([]Device, error) {
	var resp []Device
	if err := c.get(ctx, "/sites/"+url.PathEscape(siteID)+"/devices", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeviceStats fetches the stats of a single device.
func (c *Client) DeviceStats(ctx context.Context, siteID, deviceID string) (DeviceStats, error) {
	var resp DeviceStats
	path := "/sites/" + url.PathEscape(siteID) + "/stats/devices/" + url.PathEscape(deviceID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}
