// bot_shell sends boards to a running NATS bot and prints its answers.
// Each line is either a raw board message or the path of a file holding
// one.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/bot"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/snapshot"
)

func boardFromLine(line string) ([]byte, error) {
	if strings.HasPrefix(line, snapshot.MessagePrefix) || strings.HasPrefix(line, "{") {
		return []byte(line), nil
	}
	return os.ReadFile(line)
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to nats")
	}
	defer nc.Close()
	client := bot.NewClient(nc, cfg.GetString(config.ConfigBotChannel))

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mbot>\033[0m ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("readline")
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		board, err := boardFromLine(line)
		if err != nil {
			fmt.Fprintln(l.Stderr(), "Error: "+err.Error())
			continue
		}
		cmd, err := client.RequestCommand(context.Background(), board)
		if err != nil {
			fmt.Fprintln(l.Stderr(), "Error: "+err.Error())
			continue
		}
		fmt.Fprintln(l.Stdout(), cmd)
	}
}
