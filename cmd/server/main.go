package main

import (
	"github.com/ecisterna/DT-Virtual-Amateur/internal/server"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Format: util.GetEnv("LOG_FORMAT"),
		Prefix: "server",
	})
	logger.Init(consoleLogger)

	server.Init()
}
