// Package viewer drives an embedded map viewer over a websocket bridge.
// Messages are {type, payload} envelopes in both directions.
package viewer

import (
	"net/url"
	"strconv"
	"strings"
)

const DefaultURL = "https://maps.situm.com"

type Options struct {
	// BaseURL defaults to DefaultURL.
	BaseURL    string
	Profile    string
	APIKey     string
	BuildingID int
	DeviceID   string
	FixedPoiID int
}

// BuildURL returns the viewer address for opts. A profile takes precedence
// over an API key.
func BuildURL(opts Options) string {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultURL
	}

	query := url.Values{}
	switch {
	case opts.Profile != "":
		base += "/" + url.PathEscape(opts.Profile)
	case opts.APIKey != "":
		query.Set("apikey", opts.APIKey)
	}
	if opts.BuildingID > 0 {
		query.Set("buildingid", strconv.Itoa(opts.BuildingID))
	}
	if opts.DeviceID != "" {
		query.Set("deviceID", opts.DeviceID)
	}
	if opts.FixedPoiID > 0 {
		query.Set("fp", strconv.Itoa(opts.FixedPoiID))
	}
	if len(query) == 0 {
		return base
	}
	return base + "?" + query.Encode()
}
