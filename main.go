package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	engine "vodhub.fr/portal/engine/app"
	"vodhub.fr/portal/engine/app/diffusion"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()

	engine.LoadConfig()
	app := engine.Init(log)
	diffusion.WebServer(app, engine.Config.Web.PublicPort)
	select {}
}
