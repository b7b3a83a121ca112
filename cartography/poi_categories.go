package cartography

import (
	"context"

	"github.com/goliatone/go-situm/core"
)

func (s *Service) ListPoiCategories(ctx context.Context) ([]PoiCategory, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var raw []PoiCategory
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: poiCategoriesPath}, &raw); err != nil {
		return nil, err
	}
	domain := s.domain()
	out := make([]PoiCategory, 0, len(raw))
	for _, category := range raw {
		out = append(out, adaptPoiCategory(category, domain))
	}
	return out, nil
}

func (s *Service) CreatePoiCategory(ctx context.Context, form PoiCategoryForm) (PoiCategory, error) {
	if err := s.ready(); err != nil {
		return PoiCategory{}, err
	}
	if err := core.RequireText(scope, "code", form.Code); err != nil {
		return PoiCategory{}, err
	}
	if err := core.RequireText(scope, "nameEn", form.NameEn); err != nil {
		return PoiCategory{}, err
	}
	var category PoiCategory
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: poiCategoriesPath, Body: form}, &category); err != nil {
		return PoiCategory{}, err
	}
	return adaptPoiCategory(category, s.domain()), nil
}

func (s *Service) UpdatePoiCategory(ctx context.Context, id int, form PoiCategoryForm) (PoiCategory, error) {
	if err := s.ready(); err != nil {
		return PoiCategory{}, err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return PoiCategory{}, err
	}
	var category PoiCategory
	if err := s.api.Put(ctx, core.RequestDescriptor{Path: itemPath(poiCategoriesPath, id), Body: form}, &category); err != nil {
		return PoiCategory{}, err
	}
	return adaptPoiCategory(category, s.domain()), nil
}

func (s *Service) DeletePoiCategory(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequirePositiveID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: itemPath(poiCategoriesPath, id)})
}
