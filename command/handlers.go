package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/users"
)

// CartographyService is the mutating subset of *cartography.Service.
type CartographyService interface {
	CreateBuilding(ctx context.Context, form cartography.BuildingForm) (cartography.Building, error)
	UpdateBuilding(ctx context.Context, id int, form cartography.BuildingForm) (cartography.Building, error)
	DeleteBuilding(ctx context.Context, id int) error
	CreatePoi(ctx context.Context, form cartography.PoiForm) (cartography.Poi, error)
	DeletePoi(ctx context.Context, id int) error
}

// UserService is the mutating subset of *users.Service.
type UserService interface {
	CreateUser(ctx context.Context, form users.Form) (users.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type CreateBuildingCommand struct {
	service CartographyService
}

func NewCreateBuildingCommand(service CartographyService) *CreateBuildingCommand {
	return &CreateBuildingCommand{service: service}
}

func (c *CreateBuildingCommand) Execute(ctx context.Context, msg CreateBuildingMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cartography service is required")
	}
	out, err := c.service.CreateBuilding(ctx, msg.Form)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateBuildingCommand struct {
	service CartographyService
}

func NewUpdateBuildingCommand(service CartographyService) *UpdateBuildingCommand {
	return &UpdateBuildingCommand{service: service}
}

func (c *UpdateBuildingCommand) Execute(ctx context.Context, msg UpdateBuildingMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cartography service is required")
	}
	out, err := c.service.UpdateBuilding(ctx, msg.BuildingID, msg.Form)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteBuildingCommand struct {
	service CartographyService
}

func NewDeleteBuildingCommand(service CartographyService) *DeleteBuildingCommand {
	return &DeleteBuildingCommand{service: service}
}

func (c *DeleteBuildingCommand) Execute(ctx context.Context, msg DeleteBuildingMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cartography service is required")
	}
	return c.service.DeleteBuilding(ctx, msg.BuildingID)
}

type CreatePoiCommand struct {
	service CartographyService
}

func NewCreatePoiCommand(service CartographyService) *CreatePoiCommand {
	return &CreatePoiCommand{service: service}
}

func (c *CreatePoiCommand) Execute(ctx context.Context, msg CreatePoiMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cartography service is required")
	}
	out, err := c.service.CreatePoi(ctx, msg.Form)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeletePoiCommand struct {
	service CartographyService
}

func NewDeletePoiCommand(service CartographyService) *DeletePoiCommand {
	return &DeletePoiCommand{service: service}
}

func (c *DeletePoiCommand) Execute(ctx context.Context, msg DeletePoiMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cartography service is required")
	}
	return c.service.DeletePoi(ctx, msg.PoiID)
}

type CreateUserCommand struct {
	service UserService
}

func NewCreateUserCommand(service UserService) *CreateUserCommand {
	return &CreateUserCommand{service: service}
}

func (c *CreateUserCommand) Execute(ctx context.Context, msg CreateUserMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: user service is required")
	}
	out, err := c.service.CreateUser(ctx, msg.Form)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteUserCommand struct {
	service UserService
}

func NewDeleteUserCommand(service UserService) *DeleteUserCommand {
	return &DeleteUserCommand{service: service}
}

func (c *DeleteUserCommand) Execute(ctx context.Context, msg DeleteUserMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: user service is required")
	}
	return c.service.DeleteUser(ctx, msg.UserID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
