package main

import (
	"flag"

	"github.com/johnasbury91/reachh/api/router"
	"github.com/johnasbury91/reachh/app"
	"github.com/johnasbury91/reachh/config"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
)

const defaultConfigPath = "./config/config.toml"

func main() {
	conf := flag.String("conf", defaultConfigPath, "conf file path")
	flag.Parse()

	c, err := config.UnmarshalConfig(*conf)
	if err != nil {
		panic(err)
	}

	serverCtx, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer xzap.Sync()

	r := router.NewRouter(serverCtx)
	platform, err := app.NewPlatform(c, r, serverCtx)
	if err != nil {
		panic(err)
	}
	platform.Start()
}
