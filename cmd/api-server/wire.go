//go:build wireinject
// +build wireinject

package main

import (
	"stash/config"
	"stash/dao"
	"stash/dao/cache"
	"stash/handler"
	"stash/pkg/client"
	"stash/pkg/database"
	"stash/pkg/server"
	"stash/pkg/storage"
	"stash/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		config.ProvideOAuthConfig,
		config.ProvideLLMConfig,

		database.NewDB,
		client.NewRedisClient,
		storage.New,

		dao.ProviderSet,
		cache.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Auth), "*"),
		wire.Struct(new(handler.Profile), "*"),
		wire.Struct(new(handler.Class), "*"),
		wire.Struct(new(handler.Note), "*"),
		wire.Struct(new(handler.Rating), "*"),
		wire.Struct(new(handler.CommentsHandler), "*"),
		wire.Struct(new(handler.Reputation), "*"),
		wire.Struct(new(handler.Admin), "*"),
		wire.Struct(new(handler.File), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil, nil
}
