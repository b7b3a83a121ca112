package cartography

import (
	"context"

	"github.com/goliatone/go-situm/core"
)

// ListFloors lists the floors of one building, or of every building the
// session can see when BuildingID is zero.
func (s *Service) ListFloors(ctx context.Context, search FloorSearch) ([]Floor, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	path := floorsPath
	if search.BuildingID > 0 {
		path = buildingScoped(search.BuildingID, "floors")
	}
	var floors []Floor
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: path}, &floors); err != nil {
		return nil, err
	}
	if floors == nil {
		floors = []Floor{}
	}
	return floors, nil
}

func (s *Service) GetFloor(ctx context.Context, id int) (Floor, error) {
	if err := s.ready(); err != nil {
		return Floor{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Floor{}, err
	}
	var floor Floor
	err := s.api.Get(ctx, core.RequestDescriptor{Path: itemPath(floorsPath, id)}, &floor)
	return floor, err
}

func (s *Service) CreateFloor(ctx context.Context, form FloorForm) (Floor, error) {
	if err := s.ready(); err != nil {
		return Floor{}, err
	}
	if err := core.RequirePositiveID(scope, "buildingId", form.BuildingID); err != nil {
		return Floor{}, err
	}
	var floor Floor
	err := s.api.Post(ctx, core.RequestDescriptor{Path: floorsPath, Body: form}, &floor)
	return floor, err
}

func (s *Service) UpdateFloor(ctx context.Context, id int, form FloorForm) (Floor, error) {
	if err := s.ready(); err != nil {
		return Floor{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Floor{}, err
	}
	var floor Floor
	err := s.api.Put(ctx, core.RequestDescriptor{Path: itemPath(floorsPath, id), Body: form}, &floor)
	return floor, err
}

func (s *Service) DeleteFloor(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: itemPath(floorsPath, id)})
}
