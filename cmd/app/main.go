package main

import (
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/db"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/health"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/service"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/transport"
)

func options() fx.Option {
	return fx.Options(
		config.Module,
		logger.Module,
		db.Module,
		service.Module,
		transport.Module,
		health.Module,
		fx.Invoke(func(*transport.HTTPServer, *health.Server) {}),
	)
}

func main() {
	fx.New(options()).Run()
}
