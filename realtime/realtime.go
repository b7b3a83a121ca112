// Package realtime reads the latest known device positions.
package realtime

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-situm/core"
)

const (
	positionsPath     = "/api/v1/realtime/positions"
	featureCollection = "FeatureCollection"
)

type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	Time             time.Time  `json:"time"`
	Yaw              float64    `json:"yaw"`
	LocalCoordinates [2]float64 `json:"localCoordinates"`
	FloorID          int        `json:"floorId"`
	BuildingID       int        `json:"buildingId"`
	LevelHeight      float64    `json:"levelHeight"`
	Accuracy         float64    `json:"accuracy"`
}

type Feature struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Device is the public view of a positioned device; group, building and
// organization expansions are not carried.
type Device struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	OrganizationID string    `json:"organizationId"`
	GroupIDs       []string  `json:"groupIds"`
	BuildingIDs    []string  `json:"buildingIds"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Positions struct {
	Type        string    `json:"type"`
	Features    []Feature `json:"features"`
	DevicesInfo []Device  `json:"devicesInfo"`
}

type Search struct {
	BuildingIDs []int
	UserIDs     []string
	DeviceIDs   []string
	Indoor      *bool
	// MaxSecondsThreshold bounds the age of a reported position; nil leaves
	// it to the server.
	MaxSecondsThreshold *int
}

type Service struct {
	api core.API
}

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func (s *Service) Positions(ctx context.Context, search Search) (Positions, error) {
	if s == nil || s.api == nil {
		return Positions{}, core.NewConfigurationError("realtime service requires an api")
	}
	for _, id := range search.UserIDs {
		if err := core.RequireUUID("realtime", "userIds", id); err != nil {
			return Positions{}, err
		}
	}

	var positions Positions
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: positionsPath, Query: search.query()}, &positions); err != nil {
		return Positions{}, err
	}
	positions.Type = featureCollection
	if positions.Features == nil {
		positions.Features = []Feature{}
	}
	if positions.DevicesInfo == nil {
		positions.DevicesInfo = []Device{}
	}
	return positions, nil
}

// query builds the wire parameters directly; the list values are joined
// here so empty lists are never sent.
func (s Search) query() map[string]any {
	query := map[string]any{}
	if len(s.BuildingIDs) > 0 {
		ids := make([]string, 0, len(s.BuildingIDs))
		for _, id := range s.BuildingIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		query["building_ids"] = strings.Join(ids, ",")
	}
	if len(s.UserIDs) > 0 {
		query["user_ids"] = strings.Join(s.UserIDs, ",")
	}
	if len(s.DeviceIDs) > 0 {
		query["device_ids"] = strings.Join(s.DeviceIDs, ",")
	}
	if s.Indoor != nil {
		query["indoor"] = *s.Indoor
	}
	if s.MaxSecondsThreshold != nil {
		query["max_sec_threshold"] = *s.MaxSecondsThreshold
	}
	return query
}
