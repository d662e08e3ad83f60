package main

import (
	"os"

	config "github.com/anjiri1684/tuition_admin/configs"
	"github.com/anjiri1684/tuition_admin/database"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	log := utils.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	cli := &commandLine{db: db, log: log}
	if err := cli.run(os.Args); err != nil {
		if err == errHelp {
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("command failed")
	}
}
