// Command migrate applies the remote board schema to a PostgreSQL database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/bizboard/internal/client/remote"
)

func main() {
	dsn := flag.String("r", os.Getenv("BOARD_REMOTE_DSN"), "remote database DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("remote DSN is required (-r or BOARD_REMOTE_DSN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := remote.Open(*dsn)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if err := remote.RunMigrations(ctx, db); err != nil {
		log.Fatalf("%v", err)
	}
	log.Println("remote schema is up to date")
}
