package automatic

// Batches of self-play games, for comparing profiles.

import (
	"context"
	"errors"
	"expvar"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/gamelog"
	"github.com/domino14/tetrisbot/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("selfPlayCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Results aggregates a batch of games.
type Results struct {
	Profile string
	Games   int
	Pieces  stats.Statistic
	Lines   stats.Statistic
	// LinesPerGame is in completion order.
	LinesPerGame []float64
	Reasons      map[string]int
}

func (res *Results) add(g *GameResult) {
	res.Games++
	res.Pieces.Push(float64(g.Pieces))
	res.Lines.Push(float64(g.Lines))
	res.LinesPerGame = append(res.LinesPerGame, float64(g.Lines))
	res.Reasons[g.Reason]++
}

// PlayGames plays numGames games on threads workers. Each worker has its
// own turn player. gl may be nil.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads, maxPieces int,
	gl *gamelog.Log) (*Results, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if threads < 1 {
		threads = 1
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)
	CVCCounter.Set(0)

	jobs := make(chan struct{}, numGames)
	for i := 0; i < numGames; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	var mu sync.Mutex
	res := &Results{Reasons: map[string]int{}}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			r, err := NewGameRunner(cfg, maxPieces)
			if err != nil {
				return err
			}
			if gl != nil {
				r.SetGameLog(gl)
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				if ctx.Err() != nil {
					log.Info().Msg("Got stop signal, exiting soon...")
					return ctx.Err()
				}
				r.Reset(nil)
				gr, err := r.PlayGame()
				if err != nil {
					return err
				}
				CVCCounter.Add(1)
				mu.Lock()
				res.Profile = r.player.Profile().Name()
				res.add(gr)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	log.Info().Int("games", res.Games).Str("lines", res.Lines.String()).Msg("self-play-done")
	return res, nil
}
