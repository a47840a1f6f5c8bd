// Command dbinit creates the relational tables for the configured backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/BaGreal2/movieweb/internal/config"
	"github.com/BaGreal2/movieweb/internal/db"
)

func main() {
	config.LoadEnv()
	if err := run(context.Background()); err != nil {
		slog.Error("Unable to create tables", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println("Tables created successfully!")
}

func run(ctx context.Context) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	dialect, dsn, err := dbCfg.SQL()
	if err != nil {
		return err
	}

	conn, err := db.Open(dialect, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.CreateTables(ctx, conn, dialect)
}
