package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pulseboard/pulseboard/internal/common/logtrace"
	"github.com/pulseboard/pulseboard/internal/mockapi"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile string
	logLevel   string
}

func parseFlags() cmdoptions {
	opt := cmdoptions{}
	flag.StringVar(&opt.configFile, "config", "", "path to TOML configuration file")
	flag.StringVar(&opt.logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	flag.Parse()
	return opt
}

func main() {
	opt := parseFlags()
	logtrace.SetLevel(opt.logLevel)

	cfg := mockapi.DefaultConfig()
	if opt.configFile != "" {
		var err error
		cfg, err = mockapi.LoadConfig(opt.configFile)
		if err != nil {
			log.Error().Err(err).Str("config_file", opt.configFile).Msg("failed to load config")
			os.Exit(1)
		}
	}

	srv, err := mockapi.CreateNewServer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create server")
		os.Exit(1)
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
