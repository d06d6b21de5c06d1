package main

import (
	"os"
	"todos/config"
	"todos/helper"
	"todos/shared/logger"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	source := flag.StringP("source", "s", helper.DefaultSource, "migration source URL")
	flag.Usage = func() {
		os.Stderr.WriteString("usage: migrate [--source URL] up|down|step-up|drop\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, *source, flag.Arg(0)); err != nil {
		log.Fatal().Err(err).Str("action", flag.Arg(0)).Msg("Migration failed")
	}
}
