package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/veloxmart/veloxmart/config"
	"github.com/veloxmart/veloxmart/internal/api"
	"github.com/veloxmart/veloxmart/internal/app"
	"github.com/veloxmart/veloxmart/internal/webserver"
)

var (
	cfile   = flag.String("c", "/etc/veloxmart.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	showVer = flag.Bool("v", false, "print version and exit")
	version = "dev"
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("veloxmart", version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Stop()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := webserver.Init(application)
	api.InitRouter()

	if err := server.Start(); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
		os.Exit(1)
	}
}
