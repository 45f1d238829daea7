package shell

import "strings"

const usageText = `Commands:
  new [size]                  start over with an empty glass
  load <file>                 load a board message saved from the server
  piece <kind> [x y]          drop a piece into the glass (I J L O S T Z)
  profile [name|file]         show or switch the weight profile
  show                        print the glass
  gen [n]                     list the n best placements
  decide                      print the command the bot would send
  play                        commit the bot's placement
  autoplay [games] [-threads n] [-maxpieces n]
                              play local games and summarise them
  games [n]                   list games from the game log
  help [command]              this text
  exit                        quit`

var topics = map[string]string{
	"piece": "piece <kind> [x y]\n  x and y are the anchor cell, counted from the top left. Without them\n" +
		"  the piece spawns at the top centre.",
	"profile": "profile [name|file]\n  Builtin profiles are dellacherie and simple. Anything else is read as\n" +
		"  a YAML profile file.",
	"decide": "decide\n  Runs one decision exactly as the bot would, override rule included.",
	"gen": "gen [n]\n  Lists placements best first. Ties keep search order: rotation, then\n" +
		"  row, then column. The override rule is not applied here.",
	"autoplay": "autoplay [games] [-threads n] [-maxpieces n]\n  Plays games against a random piece " +
		"stream with the current profile.\n  Games are saved when --db-path is set.",
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usageText), nil
	}
	if t, ok := topics[strings.ToLower(cmd.args[0])]; ok {
		return msg(t), nil
	}
	return msg("There is no help text for the topic " + cmd.args[0]), nil
}
