package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/stackhpc/coral-credits/internal/clock"
	"github.com/stackhpc/coral-credits/internal/config"
	"github.com/stackhpc/coral-credits/internal/migration"
	"github.com/stackhpc/coral-credits/internal/observability"
	"github.com/stackhpc/coral-credits/internal/server"
	"github.com/stackhpc/coral-credits/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema before routes so the first request finds its tables.
		migration.Module,

		// Domain modules and HTTP surface
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
