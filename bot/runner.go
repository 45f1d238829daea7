package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/snapshot"
)

// Runner plays on a game server that pushes a board message over a
// websocket every tick and expects one command back.
type Runner struct {
	config  *config.Config
	decider Decider
	dialer  *websocket.Dialer

	turns int
}

func NewRunner(cfg *config.Config, decider Decider) *Runner {
	return &Runner{
		config:  cfg,
		decider: decider,
		dialer:  websocket.DefaultDialer,
	}
}

// Turns is the number of boards answered so far.
func (r *Runner) Turns() int {
	return r.turns
}

func (r *Runner) dial(ctx context.Context, url string) (*websocket.Conn, error) {
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			c, _, err := r.dialer.DialContext(ctx, url, nil)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(max(1, r.config.GetInt(config.ConfigDialAttempts)))),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("dial-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	return conn, err
}

// Run connects and answers boards until ctx is done or the server closes
// the connection.
func (r *Runner) Run(ctx context.Context) error {
	url := r.config.GetString(config.ConfigServerURL)
	if url == "" {
		return errors.New("no server url configured")
	}
	conn, err := r.dial(ctx, url)
	if err != nil {
		return fmt.Errorf("connecting to game server: %w", err)
	}
	defer conn.Close()
	log.Info().Msg("connected-to-game-server")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Int("turns", r.turns).Msg("game-server-closed")
				return nil
			}
			return err
		}
		msg := string(data)
		if !strings.HasPrefix(msg, snapshot.MessagePrefix) {
			log.Debug().Str("msg", msg).Msg("ignoring-message")
			continue
		}
		cmd := r.answer(data)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
			return err
		}
		r.turns++
	}
}

// answer never fails: a board we cannot handle is answered by dropping
// the piece where it is.
func (r *Runner) answer(data []byte) string {
	snap, err := snapshot.Parse(data)
	if err != nil {
		log.Err(err).Msg("bad-board")
		return move.TokenDown
	}
	cmd, err := r.decider.Decide(snap)
	switch {
	case errors.Is(err, turnplayer.ErrNoLegalMove):
		log.Warn().Msg("no-legal-move-dropping-in-place")
		return move.TokenDown
	case err != nil:
		log.Err(err).Msg("decide-failed")
		return move.TokenDown
	}
	return cmd
}
