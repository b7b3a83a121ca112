package query

import (
	"context"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
	"github.com/goliatone/go-situm/users"
)

type BuildingReader interface {
	GetBuilding(ctx context.Context, id int) (cartography.Building, error)
	ListBuildings(ctx context.Context) ([]cartography.Building, error)
}

type FloorReader interface {
	ListFloors(ctx context.Context, search cartography.FloorSearch) ([]cartography.Floor, error)
}

type GeofenceReader interface {
	ListGeofences(ctx context.Context, search cartography.GeofenceSearch) (core.Paginated[cartography.Geofence], error)
}

type UserReader interface {
	ListUsers(ctx context.Context, search users.Search) (core.Paginated[users.User], error)
	GetUser(ctx context.Context, id string) (users.User, error)
}

type PositionsReader interface {
	Positions(ctx context.Context, search realtime.Search) (realtime.Positions, error)
}

type TrajectoryReader interface {
	Trajectory(ctx context.Context, search reports.TrajectorySearch) ([]reports.TrajectoryPosition, error)
}

type SessionReader interface {
	AuthSession(ctx context.Context) (core.Session, error)
}

type GetBuildingQuery struct {
	reader BuildingReader
}

func NewGetBuildingQuery(reader BuildingReader) *GetBuildingQuery {
	return &GetBuildingQuery{reader: reader}
}

func (q *GetBuildingQuery) Query(ctx context.Context, msg GetBuildingMessage) (cartography.Building, error) {
	if q == nil || q.reader == nil {
		return cartography.Building{}, queryDependencyError("query: building reader is required")
	}
	return q.reader.GetBuilding(ctx, msg.BuildingID)
}

type ListBuildingsQuery struct {
	reader BuildingReader
}

func NewListBuildingsQuery(reader BuildingReader) *ListBuildingsQuery {
	return &ListBuildingsQuery{reader: reader}
}

func (q *ListBuildingsQuery) Query(ctx context.Context, _ ListBuildingsMessage) ([]cartography.Building, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: building reader is required")
	}
	return q.reader.ListBuildings(ctx)
}

type ListFloorsQuery struct {
	reader FloorReader
}

func NewListFloorsQuery(reader FloorReader) *ListFloorsQuery {
	return &ListFloorsQuery{reader: reader}
}

func (q *ListFloorsQuery) Query(ctx context.Context, msg ListFloorsMessage) ([]cartography.Floor, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: floor reader is required")
	}
	return q.reader.ListFloors(ctx, msg.Search)
}

type ListGeofencesQuery struct {
	reader GeofenceReader
}

func NewListGeofencesQuery(reader GeofenceReader) *ListGeofencesQuery {
	return &ListGeofencesQuery{reader: reader}
}

func (q *ListGeofencesQuery) Query(
	ctx context.Context,
	msg ListGeofencesMessage,
) (core.Paginated[cartography.Geofence], error) {
	if q == nil || q.reader == nil {
		return core.Paginated[cartography.Geofence]{}, queryDependencyError("query: geofence reader is required")
	}
	return q.reader.ListGeofences(ctx, msg.Search)
}

type ListUsersQuery struct {
	reader UserReader
}

func NewListUsersQuery(reader UserReader) *ListUsersQuery {
	return &ListUsersQuery{reader: reader}
}

func (q *ListUsersQuery) Query(ctx context.Context, msg ListUsersMessage) (core.Paginated[users.User], error) {
	if q == nil || q.reader == nil {
		return core.Paginated[users.User]{}, queryDependencyError("query: user reader is required")
	}
	return q.reader.ListUsers(ctx, msg.Search)
}

type GetUserQuery struct {
	reader UserReader
}

func NewGetUserQuery(reader UserReader) *GetUserQuery {
	return &GetUserQuery{reader: reader}
}

func (q *GetUserQuery) Query(ctx context.Context, msg GetUserMessage) (users.User, error) {
	if q == nil || q.reader == nil {
		return users.User{}, queryDependencyError("query: user reader is required")
	}
	return q.reader.GetUser(ctx, msg.UserID)
}

type PositionsQuery struct {
	reader PositionsReader
}

func NewPositionsQuery(reader PositionsReader) *PositionsQuery {
	return &PositionsQuery{reader: reader}
}

func (q *PositionsQuery) Query(ctx context.Context, msg PositionsMessage) (realtime.Positions, error) {
	if q == nil || q.reader == nil {
		return realtime.Positions{}, queryDependencyError("query: positions reader is required")
	}
	return q.reader.Positions(ctx, msg.Search)
}

type TrajectoryQuery struct {
	reader TrajectoryReader
}

func NewTrajectoryQuery(reader TrajectoryReader) *TrajectoryQuery {
	return &TrajectoryQuery{reader: reader}
}

func (q *TrajectoryQuery) Query(ctx context.Context, msg TrajectoryMessage) ([]reports.TrajectoryPosition, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: trajectory reader is required")
	}
	return q.reader.Trajectory(ctx, msg.Search)
}

// AuthSessionQuery exposes the pipeline session, acquiring one if needed.
type AuthSessionQuery struct {
	reader SessionReader
}

func NewAuthSessionQuery(reader SessionReader) *AuthSessionQuery {
	return &AuthSessionQuery{reader: reader}
}

func (q *AuthSessionQuery) Query(ctx context.Context, _ AuthSessionMessage) (core.Session, error) {
	if q == nil || q.reader == nil {
		return core.Session{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.AuthSession(ctx)
}
