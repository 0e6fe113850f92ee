package main

import (
	"log"

	"github.com/kataras/iris/v12"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
	"github.com/rafaelscdev/crocheDaRuiva/internal/server"
)

func main() {
	cfg := config.Load()

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	log.Printf("api server listening on %s (env=%s)", addr, cfg.App.Env)
	if err := app.Run(iris.Addr(addr)); err != nil {
		log.Fatalf("failed to run api server: %v", err)
	}
}
