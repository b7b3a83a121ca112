package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateBuildingMessage] = (*CreateBuildingCommand)(nil)
	_ gocmd.Commander[UpdateBuildingMessage] = (*UpdateBuildingCommand)(nil)
	_ gocmd.Commander[DeleteBuildingMessage] = (*DeleteBuildingCommand)(nil)
	_ gocmd.Commander[CreatePoiMessage]      = (*CreatePoiCommand)(nil)
	_ gocmd.Commander[DeletePoiMessage]      = (*DeletePoiCommand)(nil)
	_ gocmd.Commander[CreateUserMessage]     = (*CreateUserCommand)(nil)
	_ gocmd.Commander[DeleteUserMessage]     = (*DeleteUserCommand)(nil)
)
