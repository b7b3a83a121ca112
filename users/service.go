// Package users manages the organization's users.
package users

import (
	"context"
	"strings"

	"github.com/goliatone/go-situm/core"
)

const (
	usersPath = "/api/v1/users"
	scope     = "users"
)

type Service struct {
	api core.API
}

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func (s *Service) ready() error {
	if s == nil || s.api == nil {
		return core.NewConfigurationError("users service requires an api")
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, search Search) (core.Paginated[User], error) {
	if err := s.ready(); err != nil {
		return core.Paginated[User]{}, err
	}
	var raw core.Paginated[serverUser]
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: usersPath, Query: searchQuery(search)}, &raw); err != nil {
		return core.Paginated[User]{}, err
	}
	out := core.Paginated[User]{
		Data:     make([]User, 0, len(raw.Data)),
		Metadata: raw.Metadata,
	}
	for _, user := range raw.Data {
		out.Data = append(out.Data, adaptUser(user))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return User{}, err
	}
	var raw serverUser
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: userPath(id)}, &raw); err != nil {
		return User{}, err
	}
	return adaptUser(raw), nil
}

// CreateUser posts the form together with the manager and staff flags the
// role implies.
func (s *Service) CreateUser(ctx context.Context, form Form) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if err := core.RequireText(scope, "email", form.Email); err != nil {
		return User{}, err
	}
	payload := createPayload{
		Form:      form,
		IsManager: form.Role.IsManager(),
		IsStaff:   form.Role.IsStaff(),
	}
	var raw serverUser
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: usersPath, Body: payload}, &raw); err != nil {
		return User{}, err
	}
	return adaptUser(raw), nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, form Form) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return User{}, err
	}
	var raw serverUser
	if err := s.api.Put(ctx, core.RequestDescriptor{Path: userPath(id), Body: form}, &raw); err != nil {
		return User{}, err
	}
	return adaptUser(raw), nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := core.RequireUUID(scope, "id", id); err != nil {
		return err
	}
	return s.api.Delete(ctx, core.RequestDescriptor{Path: userPath(id)})
}

func userPath(id string) string {
	return usersPath + "/" + strings.TrimSpace(id)
}

func adaptUser(in serverUser) User {
	out := in.User
	if out.Role == "" && in.RoleID != "" {
		out.Role = in.RoleID
	}
	return out
}

func searchQuery(search Search) map[string]any {
	query := map[string]any{}
	if search.Page > 0 {
		query["page"] = search.Page
	}
	if search.Size > 0 {
		query["size"] = search.Size
	}
	if search.Sort != "" {
		query["sort"] = search.Sort
	}
	if search.Direction != "" {
		query["direction"] = search.Direction
	}
	if len(search.IDs) > 0 {
		query["ids"] = search.IDs
	}
	if len(search.ExcludeIDs) > 0 {
		query["excludeIds"] = search.ExcludeIDs
	}
	if len(search.GroupIDs) > 0 {
		query["groupIds"] = search.GroupIDs
	}
	if len(search.BuildingIDs) > 0 {
		query["buildingIds"] = search.BuildingIDs
	}
	if search.HasBuildings != nil {
		query["hasBuildings"] = *search.HasBuildings
	}
	if search.FullName != "" {
		query["fullName"] = search.FullName
	}
	if len(search.Codes) > 0 {
		query["codes"] = search.Codes
	}
	return query
}
