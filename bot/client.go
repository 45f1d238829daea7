package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/snapshot"
)

const requestTimeout = 10 * time.Second

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

// RequestCommand sends a raw board message to the bot and returns its
// command.
func (c *Client) RequestCommand(ctx context.Context, board []byte) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}
	res, err := c.nc.RequestWithContext(ctx, c.channel, board)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return "", err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return decodeResponse(res.Data)
}

func decodeResponse(data []byte) (string, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	switch resp.Error {
	case "":
		return resp.Command, nil
	case ErrCodeNoLegalMove:
		return "", turnplayer.ErrNoLegalMove
	default:
		return "", errors.New("bot returned: " + resp.Error + " " + resp.Detail)
	}
}

// Decide lets a Client stand in for a local turn player.
func (c *Client) Decide(snap *snapshot.Snapshot) (string, error) {
	data, err := snap.Message()
	if err != nil {
		return "", err
	}
	return c.RequestCommand(context.Background(), data)
}
