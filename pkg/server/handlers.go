package server

import (
	"stash/handler"
)

type Handlers struct {
	Auth            *handler.Auth
	Profile         *handler.Profile
	Class           *handler.Class
	Note            *handler.Note
	Rating          *handler.Rating
	CommentsHandler *handler.CommentsHandler
	Reputation      *handler.Reputation
	Admin           *handler.Admin
	File            *handler.File
}
