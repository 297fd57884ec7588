package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/baggolabs/baggo/config"
	"github.com/baggolabs/baggo/internal/adminapi"
	"github.com/baggolabs/baggo/internal/app"
	"github.com/baggolabs/baggo/internal/shopapi"
	"github.com/baggolabs/baggo/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema (cloud mode)")
)

var version = "dev"

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		fmt.Printf("baggo %s\n", version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database schema recreated")
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()
	shopapi.InitRouter()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		zap.S().Infof("received signal %s, shutting down", s)
		application.Release()
		os.Exit(0)
	}()

	if err := webserver.Listen(); err != nil {
		zap.S().Fatalf("web server stopped: %v", err)
	}
}
