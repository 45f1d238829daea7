// Package bot connects a decider to the outside world: a NATS responder
// and client, and a websocket runner for the game server.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/snapshot"
)

// Error codes sent back in a Response.
const (
	ErrCodeNoLegalMove = "no-legal-move"
	ErrCodeMalformed   = "malformed-board"
	ErrCodeInternal    = "internal-error"
)

// Decider turns a snapshot into a command. *turnplayer.TurnPlayer and
// *Client both implement it.
type Decider interface {
	Decide(snap *snapshot.Snapshot) (string, error)
}

// Response is the reply to a board request.
type Response struct {
	Command string `json:"command"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type Bot struct {
	config *config.Config

	// the decider is not safe for concurrent use
	mu      sync.Mutex
	decider Decider
}

func NewBot(cfg *config.Config, decider Decider) *Bot {
	return &Bot{config: cfg, decider: decider}
}

func errorResponse(code string, err error) *Response {
	r := &Response{Error: code}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

func (bot *Bot) handle(data []byte) *Response {
	snap, err := snapshot.Parse(data)
	if err != nil {
		return errorResponse(ErrCodeMalformed, err)
	}
	bot.mu.Lock()
	cmd, err := bot.decider.Decide(snap)
	bot.mu.Unlock()
	switch {
	case errors.Is(err, turnplayer.ErrNoLegalMove):
		return errorResponse(ErrCodeNoLegalMove, nil)
	case err != nil:
		return errorResponse(ErrCodeInternal, err)
	}
	log.Debug().Str("command", cmd).Msg("generated-command")
	return &Response{Command: cmd}
}

// Main answers board requests on channel until ctx is done.
func Main(ctx context.Context, nc *nats.Conn, channel string, bot *Bot) error {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Msgf("RECV: %d bytes", len(m.Data))
		data, err := json.Marshal(bot.handle(m.Data))
		if err != nil {
			// Should never happen, but the requester is waiting on us.
			data = []byte(`{"error":"` + ErrCodeInternal + `"}`)
		}
		err = retry.Do(
			func() error { return m.Respond(data) },
			retry.Context(ctx),
			retry.Attempts(3),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				log.Err(err).Uint("n", n).Msg("respond-failed-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")
	<-ctx.Done()
	log.Info().Msg("bot-stopping")
	return sub.Unsubscribe()
}
