package main

import (
	"context"
	"log"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/cli"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
