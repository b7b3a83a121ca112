package query

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
	"github.com/goliatone/go-situm/users"
)

const (
	TypeGetBuilding   = "situm.query.building.get"
	TypeListBuildings = "situm.query.building.list"
	TypeListFloors    = "situm.query.floor.list"
	TypeListGeofences = "situm.query.geofence.list"
	TypeListUsers     = "situm.query.user.list"
	TypeGetUser       = "situm.query.user.get"
	TypePositions     = "situm.query.realtime.positions"
	TypeTrajectory    = "situm.query.reports.trajectory"
	TypeAuthSession   = "situm.query.auth.session"
)

type GetBuildingMessage struct {
	BuildingID int
}

func (GetBuildingMessage) Type() string { return TypeGetBuilding }

func (m GetBuildingMessage) Validate() error {
	if m.BuildingID <= 0 {
		return queryValidationError("buildingId", "building id must be greater than zero")
	}
	return nil
}

type ListBuildingsMessage struct{}

func (ListBuildingsMessage) Type() string { return TypeListBuildings }

func (ListBuildingsMessage) Validate() error { return nil }

type ListFloorsMessage struct {
	Search cartography.FloorSearch
}

func (ListFloorsMessage) Type() string { return TypeListFloors }

func (m ListFloorsMessage) Validate() error {
	if m.Search.BuildingID < 0 {
		return queryValidationError("buildingId", "building id must not be negative")
	}
	return nil
}

type ListGeofencesMessage struct {
	Search cartography.GeofenceSearch
}

func (ListGeofencesMessage) Type() string { return TypeListGeofences }

func (m ListGeofencesMessage) Validate() error {
	if m.Search.Page < 0 {
		return queryValidationError("page", "page must not be negative")
	}
	if m.Search.Size < 0 {
		return queryValidationError("size", "size must not be negative")
	}
	return nil
}

type ListUsersMessage struct {
	Search users.Search
}

func (ListUsersMessage) Type() string { return TypeListUsers }

func (ListUsersMessage) Validate() error { return nil }

type GetUserMessage struct {
	UserID string
}

func (GetUserMessage) Type() string { return TypeGetUser }

func (m GetUserMessage) Validate() error {
	if _, err := uuid.Parse(strings.TrimSpace(m.UserID)); err != nil {
		return queryValidationError("userId", "user id must be a uuid")
	}
	return nil
}

type PositionsMessage struct {
	Search realtime.Search
}

func (PositionsMessage) Type() string { return TypePositions }

func (m PositionsMessage) Validate() error {
	for _, id := range m.Search.UserIDs {
		if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
			return queryValidationError("userIds", "user ids must be uuids")
		}
	}
	return nil
}

type TrajectoryMessage struct {
	Search reports.TrajectorySearch
}

func (TrajectoryMessage) Type() string { return TypeTrajectory }

func (m TrajectoryMessage) Validate() error {
	return queryWrapValidation(m.Search.Validate(), "query: invalid trajectory search")
}

type AuthSessionMessage struct{}

func (AuthSessionMessage) Type() string { return TypeAuthSession }

func (AuthSessionMessage) Validate() error { return nil }
