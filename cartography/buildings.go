package cartography

import (
	"context"

	"github.com/goliatone/go-situm/core"
)

func (s *Service) ListBuildings(ctx context.Context) ([]Building, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	desc := core.RequestDescriptor{Path: buildingsPath}
	if s.compact {
		desc.Query = map[string]any{"view": viewCompact}
	}
	var raw []serverBuilding
	if err := s.api.Get(ctx, desc, &raw); err != nil {
		return nil, err
	}
	out := make([]Building, 0, len(raw))
	for _, building := range raw {
		out = append(out, adaptBuilding(building))
	}
	return out, nil
}

func (s *Service) GetBuilding(ctx context.Context, id int) (Building, error) {
	if err := s.ready(); err != nil {
		return Building{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Building{}, err
	}
	var raw serverBuilding
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: itemPath(buildingsPath, id)}, &raw); err != nil {
		return Building{}, err
	}
	return adaptBuilding(raw), nil
}

func (s *Service) CreateBuilding(ctx context.Context, form BuildingForm) (Building, error) {
	if err := s.ready(); err != nil {
		return Building{}, err
	}
	if err := core.RequireText(scope, "name", form.Name); err != nil {
		return Building{}, err
	}
	var raw serverBuilding
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: buildingsPath, Body: form}, &raw); err != nil {
		return Building{}, err
	}
	return adaptBuilding(raw), nil
}

func (s *Service) UpdateBuilding(ctx context.Context, id int, form BuildingForm) (Building, error) {
	if err := s.ready(); err != nil {
		return Building{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return Building{}, err
	}
	var raw serverBuilding
	if err := s.api.Put(ctx, core.RequestDescriptor{Path: itemPath(buildingsPath, id), Body: form}, &raw); err != nil {
		return Building{}, err
	}
	return adaptBuilding(raw), nil
}

func (s *Service) DeleteBuilding(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: itemPath(buildingsPath, id)})
}

func (s *Service) CurrentOrganization(ctx context.Context) (Organization, error) {
	if err := s.ready(); err != nil {
		return Organization{}, err
	}
	var org Organization
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: organizationPath}, &org); err != nil {
		return Organization{}, err
	}
	return adaptOrganization(org, s.domain()), nil
}
