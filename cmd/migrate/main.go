package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/auth"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/config"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/database"
)

const usage = `Usage: migrate COMMAND

Commands:
  up                  apply pending migrations
  down                roll back the last migration
  status              print migration status
  session USER_ID     issue a bearer token for USER_ID (flags: -ttl)`

var (
	flags = flag.NewFlagSet("migrate", flag.ExitOnError)
	ttl   = flags.Duration("ttl", 30*24*time.Hour, "lifetime of an issued session")
)

func main() {
	flag.Parse()
	if err := flags.Parse(flag.Args()); err != nil {
		log.Fatal(err)
	}
	args := flags.Args()

	if len(args) < 1 {
		log.Fatal(usage)
	}

	cfg := config.MustLoad()
	ctx := context.Background()

	switch command := args[0]; command {
	case "up", "down", "status":
		db, err := sql.Open("pgx", cfg.Database.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db, command); err != nil {
			log.Fatalf("Migration %s failed: %v", command, err)
		}
	case "session":
		if len(args) < 2 {
			log.Fatal(usage)
		}

		pool, err := database.NewPostgresPool(ctx, cfg.Database.PostgresDSN, database.PoolOptions{MaxConns: 1})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		token, err := auth.NewSessionPostgres(pool).Issue(ctx, args[1], *ttl)
		if err != nil {
			log.Fatalf("Failed to issue session: %v", err)
		}
		fmt.Println(token)
	default:
		log.Fatalf("Unknown command: %s\n\n%s", command, usage)
	}
}
