// entry point to app :)
package main

import (
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/config"
	"github.com/Brajesh31/TEC-DEV-CL/internal/appServer"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"version":  cfg.Server.AppVersion,
		"env":      cfg.Server.Env,
		"database": cfg.Database.Driver,
		"notify":   cfg.Notify.Driver,
	}).Info("Configuration loaded")
	appServer.NewServer(cfg)
}
