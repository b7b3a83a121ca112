package cartography

import (
	"context"

	"github.com/goliatone/go-situm/core"
)

// ListPois lists POIs, scoped to a building through the URL rather than
// the query when BuildingID is set.
func (s *Service) ListPois(ctx context.Context, search PoiSearch) ([]Poi, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	path := poisPath
	if search.BuildingID > 0 {
		path = buildingScoped(search.BuildingID, "pois")
	}
	query := map[string]any{}
	if search.Type != "" {
		query["type"] = search.Type
	}
	compact := s.compact
	if search.Compact != nil {
		compact = *search.Compact
	}
	if compact {
		query["view"] = viewCompact
	}

	var raw []serverPoi
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: path, Query: query}, &raw); err != nil {
		return nil, err
	}
	return adaptPois(raw), nil
}

func (s *Service) GetPoi(ctx context.Context, id int) (Poi, error) {
	if err := s.ready(); err != nil {
		return Poi{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Poi{}, err
	}
	var raw serverPoi
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: itemPath(poisPath, id)}, &raw); err != nil {
		return Poi{}, err
	}
	return adaptPoi(raw), nil
}

func (s *Service) CreatePoi(ctx context.Context, form PoiForm) (Poi, error) {
	if err := s.ready(); err != nil {
		return Poi{}, err
	}
	if err := core.RequirePositiveID(scope, "buildingId", form.BuildingID); err != nil {
		return Poi{}, err
	}
	if err := core.RequireText(scope, "name", form.Name); err != nil {
		return Poi{}, err
	}
	var raw serverPoi
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: poisPath, Body: form}, &raw); err != nil {
		return Poi{}, err
	}
	return adaptPoi(raw), nil
}

func (s *Service) UpdatePoi(ctx context.Context, id int, form PoiForm) (Poi, error) {
	if err := s.ready(); err != nil {
		return Poi{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Poi{}, err
	}
	var raw serverPoi
	if err := s.api.Put(ctx, core.RequestDescriptor{Path: itemPath(poisPath, id), Body: form}, &raw); err != nil {
		return Poi{}, err
	}
	return adaptPoi(raw), nil
}

func (s *Service) DeletePoi(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: itemPath(poisPath, id)})
}
