package cartography

import (
	"context"
	"strings"

	"github.com/goliatone/go-situm/core"
)

// ListGeofences searches geofences. An empty OrganizationID is filled from
// the current session.
func (s *Service) ListGeofences(ctx context.Context, search GeofenceSearch) (core.Paginated[Geofence], error) {
	if err := s.ready(); err != nil {
		return core.Paginated[Geofence]{}, err
	}
	organizationID := strings.TrimSpace(search.OrganizationID)
	if organizationID == "" {
		session, err := s.api.AuthSession(ctx)
		if err != nil {
			return core.Paginated[Geofence]{}, err
		}
		organizationID = session.OrganizationID
	}

	query := map[string]any{"organizationId": organizationID}
	if search.Page > 0 {
		query["page"] = search.Page
	}
	if search.Size > 0 {
		query["size"] = search.Size
	}
	if search.Sort != "" {
		query["sort"] = search.Sort
	}
	if len(search.BuildingIDs) > 0 {
		query["buildingIds"] = search.BuildingIDs
	}
	if search.Name != "" {
		query["name"] = search.Name
	}
	if search.Deleted != nil {
		query["deleted"] = *search.Deleted
	}

	var raw core.Paginated[serverGeofence]
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: geofencesPath, Query: query}, &raw); err != nil {
		return core.Paginated[Geofence]{}, err
	}
	out := core.Paginated[Geofence]{
		Data:     make([]Geofence, 0, len(raw.Data)),
		Metadata: raw.Metadata,
	}
	for _, geofence := range raw.Data {
		out.Data = append(out.Data, adaptGeofence(geofence))
	}
	return out, nil
}

func (s *Service) GetGeofence(ctx context.Context, id string) (Geofence, error) {
	if err := s.ready(); err != nil {
		return Geofence{}, err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return Geofence{}, err
	}
	var raw serverGeofence
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: geofencesPath + "/" + id}, &raw); err != nil {
		return Geofence{}, err
	}
	return adaptGeofence(raw), nil
}

func (s *Service) CreateGeofence(ctx context.Context, form GeofenceForm) (Geofence, error) {
	if err := s.ready(); err != nil {
		return Geofence{}, err
	}
	if err := core.RequireText(scope, "name", form.Name); err != nil {
		return Geofence{}, err
	}
	if form.Type == "" {
		form.Type = GeofenceTypePolygon
	}
	var raw serverGeofence
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: geofencesPath, Body: form}, &raw); err != nil {
		return Geofence{}, err
	}
	return adaptGeofence(raw), nil
}

func (s *Service) UpdateGeofence(ctx context.Context, id string, form GeofenceForm) (Geofence, error) {
	if err := s.ready(); err != nil {
		return Geofence{}, err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return Geofence{}, err
	}
	var raw serverGeofence
	if err := s.api.Put(ctx, core.RequestDescriptor{Path: geofencesPath + "/" + id, Body: form}, &raw); err != nil {
		return Geofence{}, err
	}
	return adaptGeofence(raw), nil
}

func (s *Service) DeleteGeofence(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: geofencesPath + "/" + id})
}
