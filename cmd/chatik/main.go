package main

import (
	"flag"

	"go.uber.org/fx"

	"github.com/dkoval/chatik/internal/app"
)

func main() {
	configFlag := flag.String("config", "", "config file path (default ~/.chatik/config.toml)")
	flag.Parse()

	fx.New(
		app.Module(app.Params{ConfigPath: *configFlag}),
		fx.NopLogger,
	).Run()
}
