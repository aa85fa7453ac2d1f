package main

import (
	"context"

	"github.com/spolyakov/passport/internal/client/cli"
	"github.com/spolyakov/passport/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(context.Background())
}
