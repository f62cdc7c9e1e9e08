package main

import (
	"context"
	"database/sql"
	"flag"

	"github.com/classtools/rosterjobs/internal/bootstrap"
	"github.com/classtools/rosterjobs/internal/devseed"
)

// openDB connects to Postgres using the loaded configuration. The caller
// closes the handle.
func openDB(ctx *commandContext) (*sql.DB, error) {
	return bootstrap.ConnectDB(ctx.Config.Postgres, ctx.Logger)
}

func closeDB(ctx *commandContext, db *sql.DB) {
	if err := db.Close(); err != nil {
		ctx.Logger.ErrorContext(ctx.Ctx, "close database failed", "error", err)
	}
}

func runMigrate(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	mctx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()
	return bootstrap.RunMigrations(mctx, db, ctx.Logger)
}

func runSeedDev(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("seed-dev", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	return devseed.Run(ctx.Ctx, db, ctx.Logger)
}
