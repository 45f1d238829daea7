package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/bot"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/gamelog"
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func main() {
	// Relative paths in the config are resolved against the directory of
	// the executable.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)
	setupLogging(cfg.GetBool(config.ConfigDebug))
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if path := cfg.GetString(config.ConfigCPUProfile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	tp, err := turnplayer.NewTurnPlayerFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("loading profile")
	}
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		gl, err := gamelog.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("opening game log")
		}
		defer gl.Close()
		gameID := uuid.NewString()
		tp.SetRecorder(gl, gameID)
		log.Info().Str("game", gameID).Msg("recording-turns")
	}

	g, ctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	g.Go(func() error {
		select {
		case <-sig:
			// We received an interrupt signal, shut down.
			log.Info().Msg("got quit signal...")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	switch mode := cfg.GetString(config.ConfigMode); mode {
	case config.ModeNats:
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			log.Fatal().Err(err).Msg("connecting to nats")
		}
		defer nc.Close()
		b := bot.NewBot(cfg, tp)
		g.Go(func() error {
			defer cancel()
			return bot.Main(ctx, nc, cfg.GetString(config.ConfigBotChannel), b)
		})
	case config.ModeWebsocket:
		r := bot.NewRunner(cfg, tp)
		g.Go(func() error {
			defer cancel()
			return r.Run(ctx)
		})
	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode")
	}

	if err := g.Wait(); err != nil {
		log.Err(err).Msg("bot-exited")
	}
	log.Info().Msg("bot gracefully shutting down")
}
