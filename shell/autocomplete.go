package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/tetromino"
)

// ShellCompleter completes command names and, for a few commands, their
// first argument.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

var commandNames = []string{
	"autoplay", "decide", "exit", "games", "gen", "help", "load", "new",
	"piece", "play", "profile", "show",
}

func argCompletions(cmd string) []string {
	switch cmd {
	case "piece":
		out := make([]string, tetromino.NumKinds)
		for k := range out {
			out[k] = tetromino.Kind(k).String()
		}
		return out
	case "profile":
		return []string{equity.DellacherieProfileName, equity.SimpleProfileName}
	case "help":
		return commandNames
	case "autoplay":
		return []string{"-threads", "-maxpieces"}
	}
	return nil
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	case len(fields) == 1 || (len(fields) == 2 && !endsWithSpace):
		if len(fields) == 2 {
			prefix = fields[1]
		}
		completions = argCompletions(fields[0])
	}

	var out [][]rune
	for _, c := range completions {
		if strings.HasPrefix(c, prefix) {
			out = append(out, []rune(c[len(prefix):]))
		}
	}
	return out, len([]rune(prefix))
}
