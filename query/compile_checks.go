package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
	"github.com/goliatone/go-situm/users"
)

var (
	_ gocmd.Querier[GetBuildingMessage, cartography.Building]                   = (*GetBuildingQuery)(nil)
	_ gocmd.Querier[ListBuildingsMessage, []cartography.Building]               = (*ListBuildingsQuery)(nil)
	_ gocmd.Querier[ListFloorsMessage, []cartography.Floor]                     = (*ListFloorsQuery)(nil)
	_ gocmd.Querier[ListGeofencesMessage, core.Paginated[cartography.Geofence]] = (*ListGeofencesQuery)(nil)
	_ gocmd.Querier[ListUsersMessage, core.Paginated[users.User]]               = (*ListUsersQuery)(nil)
	_ gocmd.Querier[GetUserMessage, users.User]                                 = (*GetUserQuery)(nil)
	_ gocmd.Querier[PositionsMessage, realtime.Positions]                       = (*PositionsQuery)(nil)
	_ gocmd.Querier[TrajectoryMessage, []reports.TrajectoryPosition]            = (*TrajectoryQuery)(nil)
	_ gocmd.Querier[AuthSessionMessage, core.Session]                           = (*AuthSessionQuery)(nil)
)
