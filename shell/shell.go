// Package shell is an interactive REPL for poking at the decision engine:
// set up a glass, drop a piece in, and see what the bot would do.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/tetromino"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	glass  *glass.Glass
	piece  *tetromino.Kind
	point  tetromino.Cell
	level  int
	future []tetromino.Kind

	player      *turnplayer.TurnPlayer
	curGenPlays []*move.Move
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// CmdOptions holds -key value pairs given to a command.
type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the controller with an empty glass of the
// configured size.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc, err := newController(cfg)
	if err != nil {
		return nil, err
	}
	sc.l, err = readline.NewEx(&readline.Config{
		Prompt:          "\033[36mtetrisbot>\033[0m ",
		HistoryFile:     os.TempDir() + "/tetrisbot_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func newController(cfg *config.Config) (*ShellController, error) {
	tp, err := turnplayer.NewTurnPlayerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ShellController{
		config: cfg,
		glass:  glass.New(cfg.GetInt(config.ConfigBoardSize)),
		player: tp,
	}, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into command, positional args and -key
// value options, honouring shell quoting.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if !strings.HasPrefix(f, "-") || len(f) == 1 || isNumber(f) {
			cmd.args = append(cmd.args, f)
			continue
		}
		if i == len(fields)-1 {
			return nil, errWrongOptionSyntax
		}
		key := strings.TrimPrefix(f, "-")
		cmd.options[key] = append(cmd.options[key], fields[i+1])
		i++
	}
	return cmd, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (sc *ShellController) dispatch(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGlass(cmd)
	case "load":
		return sc.load(cmd)
	case "piece":
		return sc.setPiece(cmd)
	case "profile":
		return sc.profile(cmd)
	case "show":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "decide":
		return sc.decide(cmd)
	case "play":
		return sc.play(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "games":
		return sc.games(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(line))
	return nil, fmt.Errorf("unknown command %q, try `help`", cmd.cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.dispatch(line)
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
