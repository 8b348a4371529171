package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bizboard/internal/client/cli"
	"github.com/dmitrijs2005/bizboard/internal/client/config"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/cryptox"
	"github.com/dmitrijs2005/bizboard/internal/flagx"
)

func main() {
	if flagx.HasFlag(os.Args[1:], "hash-passphrase") {
		if err := hashPassphrase(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

// hashPassphrase prints the salt and verifier to put in the configuration.
func hashPassphrase() error {
	pass, err := cli.GetPassword("New access passphrase", os.Stderr)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)
	if len(pass) == 0 {
		return fmt.Errorf("empty passphrase")
	}

	salt, verifier, err := cryptox.NewVerifier(pass)
	if err != nil {
		return err
	}
	fmt.Printf("BOARD_ACCESS_SALT=%s\n", hex.EncodeToString(salt))
	fmt.Printf("BOARD_ACCESS_VERIFIER=%s\n", hex.EncodeToString(verifier))
	return nil
}
