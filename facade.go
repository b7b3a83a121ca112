package situm

import (
	"fmt"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-situm/adapters/gocommand"
	"github.com/goliatone/go-situm/cartography"
	situmcommand "github.com/goliatone/go-situm/command"
	"github.com/goliatone/go-situm/core"
	situmquery "github.com/goliatone/go-situm/query"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
	"github.com/goliatone/go-situm/users"
)

type Commands struct {
	CreateBuilding *situmcommand.CreateBuildingCommand
	UpdateBuilding *situmcommand.UpdateBuildingCommand
	DeleteBuilding *situmcommand.DeleteBuildingCommand
	CreatePoi      *situmcommand.CreatePoiCommand
	DeletePoi      *situmcommand.DeletePoiCommand
	CreateUser     *situmcommand.CreateUserCommand
	DeleteUser     *situmcommand.DeleteUserCommand
}

type Queries struct {
	GetBuilding   *situmquery.GetBuildingQuery
	ListBuildings *situmquery.ListBuildingsQuery
	ListFloors    *situmquery.ListFloorsQuery
	ListGeofences *situmquery.ListGeofencesQuery
	ListUsers     *situmquery.ListUsersQuery
	GetUser       *situmquery.GetUserQuery
	Positions     *situmquery.PositionsQuery
	Trajectory    *situmquery.TrajectoryQuery
	AuthSession   *situmquery.AuthSessionQuery
}

// FacadeServices is the set of collaborators the facade binds. A *Client
// provides all of them through FacadeServicesFromClient.
type FacadeServices struct {
	Cartography interface {
		situmcommand.CartographyService
		situmquery.BuildingReader
		situmquery.FloorReader
		situmquery.GeofenceReader
	}
	Users interface {
		situmcommand.UserService
		situmquery.UserReader
	}
	Realtime situmquery.PositionsReader
	Reports  situmquery.TrajectoryReader
	Session  situmquery.SessionReader
}

func FacadeServicesFromClient(client *Client) FacadeServices {
	if client == nil {
		return FacadeServices{}
	}
	return FacadeServices{
		Cartography: client.Cartography,
		Users:       client.Users,
		Realtime:    client.Realtime,
		Reports:     client.Reports,
		Session:     client.Pipeline,
	}
}

type Facade struct {
	commands Commands
	queries  Queries
}

func NewFacade(services FacadeServices) (*Facade, error) {
	switch {
	case services.Cartography == nil:
		return nil, fmt.Errorf("situm: cartography service is required")
	case services.Users == nil:
		return nil, fmt.Errorf("situm: users service is required")
	case services.Realtime == nil:
		return nil, fmt.Errorf("situm: realtime service is required")
	case services.Reports == nil:
		return nil, fmt.Errorf("situm: reports service is required")
	case services.Session == nil:
		return nil, fmt.Errorf("situm: session reader is required")
	}

	facade := &Facade{}
	facade.commands = Commands{
		CreateBuilding: situmcommand.NewCreateBuildingCommand(services.Cartography),
		UpdateBuilding: situmcommand.NewUpdateBuildingCommand(services.Cartography),
		DeleteBuilding: situmcommand.NewDeleteBuildingCommand(services.Cartography),
		CreatePoi:      situmcommand.NewCreatePoiCommand(services.Cartography),
		DeletePoi:      situmcommand.NewDeletePoiCommand(services.Cartography),
		CreateUser:     situmcommand.NewCreateUserCommand(services.Users),
		DeleteUser:     situmcommand.NewDeleteUserCommand(services.Users),
	}
	facade.queries = Queries{
		GetBuilding:   situmquery.NewGetBuildingQuery(services.Cartography),
		ListBuildings: situmquery.NewListBuildingsQuery(services.Cartography),
		ListFloors:    situmquery.NewListFloorsQuery(services.Cartography),
		ListGeofences: situmquery.NewListGeofencesQuery(services.Cartography),
		ListUsers:     situmquery.NewListUsersQuery(services.Users),
		GetUser:       situmquery.NewGetUserQuery(services.Users),
		Positions:     situmquery.NewPositionsQuery(services.Realtime),
		Trajectory:    situmquery.NewTrajectoryQuery(services.Reports),
		AuthSession:   situmquery.NewAuthSessionQuery(services.Session),
	}
	return facade, nil
}

// NewClientFacade is NewFacade over the services of client.
func NewClientFacade(client *Client) (*Facade, error) {
	if client == nil {
		return nil, fmt.Errorf("situm: client is required")
	}
	return NewFacade(FacadeServicesFromClient(client))
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

// Register adds every command and query to the adapter's registry and
// subscribes them on the go-command dispatcher. On failure every
// subscription tracked by adapter is released.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) error {
	if f == nil {
		return fmt.Errorf("situm: facade is required")
	}
	if adapter == nil {
		return fmt.Errorf("situm: registry adapter is required")
	}
	steps := []func() error{
		registerCommand[situmcommand.CreateBuildingMessage](adapter, f.commands.CreateBuilding),
		registerCommand[situmcommand.UpdateBuildingMessage](adapter, f.commands.UpdateBuilding),
		registerCommand[situmcommand.DeleteBuildingMessage](adapter, f.commands.DeleteBuilding),
		registerCommand[situmcommand.CreatePoiMessage](adapter, f.commands.CreatePoi),
		registerCommand[situmcommand.DeletePoiMessage](adapter, f.commands.DeletePoi),
		registerCommand[situmcommand.CreateUserMessage](adapter, f.commands.CreateUser),
		registerCommand[situmcommand.DeleteUserMessage](adapter, f.commands.DeleteUser),

		registerQuery[situmquery.GetBuildingMessage, cartography.Building](adapter, f.queries.GetBuilding),
		registerQuery[situmquery.ListBuildingsMessage, []cartography.Building](adapter, f.queries.ListBuildings),
		registerQuery[situmquery.ListFloorsMessage, []cartography.Floor](adapter, f.queries.ListFloors),
		registerQuery[situmquery.ListGeofencesMessage, core.Paginated[cartography.Geofence]](adapter, f.queries.ListGeofences),
		registerQuery[situmquery.ListUsersMessage, core.Paginated[users.User]](adapter, f.queries.ListUsers),
		registerQuery[situmquery.GetUserMessage, users.User](adapter, f.queries.GetUser),
		registerQuery[situmquery.PositionsMessage, realtime.Positions](adapter, f.queries.Positions),
		registerQuery[situmquery.TrajectoryMessage, []reports.TrajectoryPosition](adapter, f.queries.Trajectory),
		registerQuery[situmquery.AuthSessionMessage, core.Session](adapter, f.queries.AuthSession),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			adapter.Unsubscribe()
			return err
		}
	}
	return nil
}

func registerCommand[T any](adapter *gocommand.RegistryAdapter, cmd gocmd.Commander[T]) func() error {
	return func() error {
		_, err := gocommand.RegisterAndSubscribe[T](adapter, cmd)
		return err
	}
}

func registerQuery[T any, R any](adapter *gocommand.RegistryAdapter, qry gocmd.Querier[T, R]) func() error {
	return func() error {
		_, err := gocommand.RegisterAndSubscribeQuery[T, R](adapter, qry)
		return err
	}
}
