package command

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/users"
)

const (
	TypeCreateBuilding = "situm.command.building.create"
	TypeUpdateBuilding = "situm.command.building.update"
	TypeDeleteBuilding = "situm.command.building.delete"
	TypeCreatePoi      = "situm.command.poi.create"
	TypeDeletePoi      = "situm.command.poi.delete"
	TypeCreateUser     = "situm.command.user.create"
	TypeDeleteUser     = "situm.command.user.delete"
)

type CreateBuildingMessage struct {
	Form cartography.BuildingForm
}

func (CreateBuildingMessage) Type() string { return TypeCreateBuilding }

func (m CreateBuildingMessage) Validate() error {
	if strings.TrimSpace(m.Form.Name) == "" {
		return commandValidationError(m.Type(), "name", "building name is required")
	}
	return nil
}

type UpdateBuildingMessage struct {
	BuildingID int
	Form       cartography.BuildingForm
}

func (UpdateBuildingMessage) Type() string { return TypeUpdateBuilding }

func (m UpdateBuildingMessage) Validate() error {
	if err := validateID(m.Type(), "buildingId", m.BuildingID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Form.Name) == "" {
		return commandValidationError(m.Type(), "name", "building name is required")
	}
	return nil
}

type DeleteBuildingMessage struct {
	BuildingID int
}

func (DeleteBuildingMessage) Type() string { return TypeDeleteBuilding }

func (m DeleteBuildingMessage) Validate() error {
	return validateID(m.Type(), "buildingId", m.BuildingID)
}

type CreatePoiMessage struct {
	Form cartography.PoiForm
}

func (CreatePoiMessage) Type() string { return TypeCreatePoi }

func (m CreatePoiMessage) Validate() error {
	return validateID(m.Type(), "buildingId", m.Form.BuildingID)
}

type DeletePoiMessage struct {
	PoiID int
}

func (DeletePoiMessage) Type() string { return TypeDeletePoi }

func (m DeletePoiMessage) Validate() error {
	return validateID(m.Type(), "poiId", m.PoiID)
}

type CreateUserMessage struct {
	Form users.Form
}

func (CreateUserMessage) Type() string { return TypeCreateUser }

func (m CreateUserMessage) Validate() error {
	if strings.TrimSpace(m.Form.Email) == "" {
		return commandValidationError(m.Type(), "email", "email is required")
	}
	return nil
}

type DeleteUserMessage struct {
	UserID string
}

func (DeleteUserMessage) Type() string { return TypeDeleteUser }

func (m DeleteUserMessage) Validate() error {
	if _, err := uuid.Parse(strings.TrimSpace(m.UserID)); err != nil {
		return commandValidationError(m.Type(), "userId", "user id must be a uuid")
	}
	return nil
}

func validateID(messageType string, field string, id int) error {
	if id <= 0 {
		return commandValidationError(messageType, field, field+" must be greater than zero")
	}
	return nil
}
