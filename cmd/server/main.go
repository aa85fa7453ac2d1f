package main

import (
	"context"
	"log"
	"os"

	"github.com/spolyakov/passport/internal/buildinfo"
	"github.com/spolyakov/passport/internal/server"
	"github.com/spolyakov/passport/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
