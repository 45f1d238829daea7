package bot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/is"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/snapshot"
	"github.com/domino14/tetrisbot/tetromino"
)

type fixedDecider struct {
	cmd string
	err error
	got []*snapshot.Snapshot
}

func (d *fixedDecider) Decide(snap *snapshot.Snapshot) (string, error) {
	d.got = append(d.got, snap)
	return d.cmd, d.err
}

func boardMessage(t *testing.T) []byte {
	data, err := snapshot.New(glass.New(8), tetromino.T, tetromino.Cell{X: 3, Y: 0}).Message()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandle(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	d := &fixedDecider{cmd: "ACT(1),LEFT,DOWN"}
	resp := NewBot(&cfg, d).handle(boardMessage(t))
	is.Equal(resp.Command, "ACT(1),LEFT,DOWN")
	is.Equal(resp.Error, "")
	is.Equal(len(d.got), 1)
	is.Equal(*d.got[0].Piece, tetromino.T)
}

func TestHandleErrors(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()

	resp := NewBot(&cfg, &fixedDecider{}).handle([]byte("board=garbage"))
	is.Equal(resp.Error, ErrCodeMalformed)

	resp = NewBot(&cfg, &fixedDecider{err: turnplayer.ErrNoLegalMove}).handle(boardMessage(t))
	is.Equal(resp.Error, ErrCodeNoLegalMove)
	is.Equal(resp.Command, "")

	resp = NewBot(&cfg, &fixedDecider{err: errors.New("boom")}).handle(boardMessage(t))
	is.Equal(resp.Error, ErrCodeInternal)
	is.Equal(resp.Detail, "boom")
}

func TestHandleWithTurnPlayer(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	tp := turnplayer.NewTurnPlayer(&cfg, equity.Dellacherie())
	resp := NewBot(&cfg, tp).handle(boardMessage(t))
	is.Equal(resp.Error, "")
	is.True(strings.HasSuffix(resp.Command, "DOWN"))
}

func TestDecodeResponse(t *testing.T) {
	is := is.New(t)
	cmd, err := decodeResponse([]byte(`{"command":"LEFT,DOWN"}`))
	is.NoErr(err)
	is.Equal(cmd, "LEFT,DOWN")

	_, err = decodeResponse([]byte(`{"command":"","error":"no-legal-move"}`))
	is.True(errors.Is(err, turnplayer.ErrNoLegalMove))

	_, err = decodeResponse([]byte(`{"error":"internal-error","detail":"x"}`))
	is.True(err != nil)

	data, err := json.Marshal(Response{Command: "DOWN"})
	is.NoErr(err)
	is.Equal(string(data), `{"command":"DOWN"}`)
}

// gameServer sends each board in turn and collects the replies.
func gameServer(t *testing.T, boards [][]byte, replies chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()
		for _, b := range boards {
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				t.Error(err)
				return
			}
			if !strings.HasPrefix(string(b), snapshot.MessagePrefix) {
				continue
			}
			_, data, err := conn.ReadMessage()
			if err != nil {
				t.Error(err)
				return
			}
			replies <- string(data)
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	}))
}

func TestRunner(t *testing.T) {
	is := is.New(t)
	replies := make(chan string, 4)
	srv := gameServer(t, [][]byte{
		[]byte("hello"),
		boardMessage(t),
		[]byte("board=broken"),
	}, replies)
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigServerURL, "ws"+strings.TrimPrefix(srv.URL, "http"))
	d := &fixedDecider{cmd: "RIGHT,DOWN"}
	r := NewRunner(&cfg, d)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	is.NoErr(r.Run(ctx))

	is.Equal(<-replies, "RIGHT,DOWN")
	is.Equal(<-replies, "DOWN") // unparseable board
	is.Equal(r.Turns(), 2)
	is.Equal(len(d.got), 1)
}

func TestRunnerNoLegalMoveDrops(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	r := NewRunner(&cfg, &fixedDecider{err: turnplayer.ErrNoLegalMove})
	is.Equal(r.answer(boardMessage(t)), "DOWN")
}

func TestRunnerNeedsURL(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	r := NewRunner(&cfg, &fixedDecider{})
	is.True(r.Run(context.Background()) != nil)
}
