package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/kylef/irctk"
	"github.com/kylef/irctk/logger"
)

func main() {
	var configPath string
	var nickname string
	var debug bool
	var version bool
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.StringVar(&nickname, "nickname", "", "nick name to use")
	flag.BoolVar(&debug, "debug", false, "log raw protocol data")
	flag.BoolVar(&version, "version", false, "show version info")
	flag.Parse()

	if version {
		if v, ok := irctk.BuildVersion(); ok {
			fmt.Printf("irctk version %v\n", v)
		} else {
			fmt.Printf("irctk (unknown version)\n")
		}
		return
	}

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}
		configPath = path.Join(configDir, "irctk", "irctk.scfg")
	}

	cfg, err := irctk.LoadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "the configuration file at %q was not found, see the -config flag\n", configPath)
		} else {
			fmt.Fprintf(os.Stderr, "failed to load the required configuration file at %q: %s\n", configPath, err)
		}
		os.Exit(1)
		return
	}
	if nickname != "" {
		cfg.Nick = nickname
	}
	if debug {
		cfg.Debug = true
	}

	level := cfg.Log.Level
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logFile := logger.Setup(level, logger.FileParams{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	defer logFile.Close()

	bot, err := irctk.NewBot(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to start")
	}
	defer bot.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if cfg.MetricsListen != "" {
		go func() {
			if err := bot.ServeStatus(ctx, cfg.MetricsListen); err != nil {
				logger.Log.Error().Err(err).Msg("status server failed")
			}
		}()
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error().Err(err).Msg("bot stopped")
	}
}
