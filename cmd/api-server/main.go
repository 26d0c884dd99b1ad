package main

import (
	"fmt"
	"os"

	"stash/config"
	"stash/dao"
	"stash/models"
	"stash/pkg/database"
	"stash/pkg/log"
	"stash/pkg/server"
	"stash/service"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "stash note sharing backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: path, Usage: "config file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					if cfg.Database.AutoMigrate {
						if err := models.AutoMigrate(database.NewDB(cfg)); err != nil {
							return fmt.Errorf("auto migrate: %w", err)
						}
					}
					appProvider, cleanup, err := InitServer(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx, appProvider)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					if err := models.AutoMigrate(database.NewDB(cfg)); err != nil {
						return err
					}
					log.L.Info("migrate success")
					return nil
				},
			},
			{
				Name:  "admin",
				Usage: "manage administrators",
				Subcommands: []*cli.Command{
					adminCommand("grant", "grant admin to a user by email", true),
					adminCommand("revoke", "revoke admin from a user by email", false),
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}

func adminCommand(name, usage string, isAdmin bool) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
		},
		Action: func(ctx *cli.Context) error {
			cfg := config.New(ctx.String("config"))
			db := database.NewDB(cfg)
			profiles := &service.ProfileService{
				Config:     cfg,
				UserDAO:    dao.NewUsers(db),
				ProfileDAO: dao.NewProfiles(db),
			}
			return profiles.SetAdmin(ctx.Context, ctx.String("email"), isAdmin)
		},
	}
}
