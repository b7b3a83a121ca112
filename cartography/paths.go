package cartography

import (
	"context"

	"github.com/goliatone/go-situm/core"
)

// ListPaths returns the routing graphs. A building scoped search yields a
// single graph.
func (s *Service) ListPaths(ctx context.Context, search PathSearch) ([]Paths, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if search.BuildingID > 0 {
		var paths Paths
		if err := s.api.Get(ctx, core.RequestDescriptor{Path: buildingScoped(search.BuildingID, "paths")}, &paths); err != nil {
			return nil, err
		}
		return []Paths{paths}, nil
	}
	var all []Paths
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: pathsPath}, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = []Paths{}
	}
	return all, nil
}

// UpdatePaths replaces the routing graph of a building.
func (s *Service) UpdatePaths(ctx context.Context, buildingID int, paths Paths) (Paths, error) {
	if err := s.ready(); err != nil {
		return Paths{}, err
	}
	if err := core.RequirePositiveID(scope, "buildingId", buildingID); err != nil {
		return Paths{}, err
	}
	if paths.Nodes == nil {
		paths.Nodes = []PathNode{}
	}
	if paths.Links == nil {
		paths.Links = []PathLink{}
	}
	var out Paths
	err := s.api.Put(ctx, core.RequestDescriptor{Path: buildingScoped(buildingID, "paths"), Body: paths}, &out)
	return out, err
}
