package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigProfile           = "profile"
	ConfigProfilePath       = "profile-path"
	ConfigBoardSize         = "board-size"
	ConfigMode              = "mode"
	ConfigServerURL         = "server-url"
	ConfigNatsURL           = "nats-url"
	ConfigBotChannel        = "bot-channel"
	ConfigDBPath            = "db-path"
	ConfigDialAttempts      = "dial-attempts"
	ConfigDecisionCacheSize = "decision-cache-size"
	ConfigAutoplayGames     = "autoplay-games"
	ConfigAutoplayThreads   = "autoplay-threads"
	ConfigAutoplayMaxPieces = "autoplay-max-pieces"
	ConfigCPUProfile        = "cpu-profile"
)

const (
	ModeWebsocket = "websocket"
	ModeNats      = "nats"
)

type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigProfile, "dellacherie")
	v.SetDefault(ConfigProfilePath, "")
	v.SetDefault(ConfigBoardSize, 18)
	v.SetDefault(ConfigMode, ModeWebsocket)
	v.SetDefault(ConfigServerURL, "")
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "tetrisbot.decide")
	v.SetDefault(ConfigDBPath, "")
	v.SetDefault(ConfigDialAttempts, 10)
	v.SetDefault(ConfigDecisionCacheSize, 64)
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, 4)
	v.SetDefault(ConfigAutoplayMaxPieces, 1000)
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config holding only default values. Useful for
// tests.
func DefaultConfig() Config {
	c := Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

// Load reads settings from (in order of precedence) command-line args,
// TETRISBOT_* environment variables, and defaults.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := pflag.NewFlagSet("tetrisbot", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigProfile, "dellacherie", "weight profile: dellacherie or simple")
	fs.String(ConfigProfilePath, "", "optional YAML file overriding the profile weights")
	fs.Int(ConfigBoardSize, 18, "side of the glass for local games")
	fs.String(ConfigMode, ModeWebsocket, "transport: websocket or nats")
	fs.String(ConfigServerURL, "", "game server websocket URL, including the player code")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server URL")
	fs.String(ConfigBotChannel, "tetrisbot.decide", "NATS subject the bot answers on")
	fs.String(ConfigDBPath, "", "sqlite file for the game log; empty disables it")
	fs.Int(ConfigDialAttempts, 10, "websocket dial attempts before giving up")
	fs.Int(ConfigDecisionCacheSize, 64, "number of recent decisions to memoise")
	fs.Int(ConfigAutoplayGames, 100, "games to play in autoplay")
	fs.Int(ConfigAutoplayThreads, 4, "autoplay worker count")
	fs.Int(ConfigAutoplayMaxPieces, 1000, "piece limit per autoplay game")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("tetrisbot")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// AdjustRelativePaths makes file settings that start with ./ relative to
// the executable's directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigProfilePath, ConfigDBPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns all settings with secrets removed. The server
// URL carries the player code in its query string.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if raw, ok := settings[ConfigServerURL].(string); ok && raw != "" {
		if u, err := url.Parse(raw); err == nil {
			u.RawQuery = ""
			settings[ConfigServerURL] = u.String()
		} else {
			settings[ConfigServerURL] = "<unparseable>"
		}
	}
	return settings
}
