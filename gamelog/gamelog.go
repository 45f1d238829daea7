// Package gamelog records decisions and finished games in a sqlite file,
// so that profiles can be compared after the fact.
package gamelog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	profile TEXT,
	size INTEGER,
	started_at DATETIME,
	ended_at DATETIME,
	pieces INTEGER,
	lines INTEGER
);
CREATE TABLE IF NOT EXISTS turns (
	game_id TEXT,
	turn INTEGER,
	piece TEXT,
	rotation INTEGER,
	x INTEGER,
	y INTEGER,
	equity REAL,
	command TEXT,
	created_at DATETIME
);
CREATE INDEX IF NOT EXISTS turns_game_id ON turns (game_id);
`

// Turn is one decision.
type Turn struct {
	GameID   string
	Turn     int
	Piece    string
	Rotation int
	X        int
	Y        int
	Equity   float64
	Command  string
}

// Game is the summary of one finished game.
type Game struct {
	ID        string
	Profile   string
	Size      int
	StartedAt time.Time
	EndedAt   time.Time
	Pieces    int
	Lines     int
}

// Log is a handle on the sqlite file. It is safe for concurrent use.
type Log struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the file and its tables if needed. ":memory:" is accepted.
func Open(path string) (*Log, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating gamelog directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening gamelog: %w", err)
	}
	// one connection, so that :memory: databases are shared by all calls
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating gamelog tables: %w", err)
	}
	log.Info().Str("path", path).Msg("gamelog-opened")
	return &Log{db: db}, nil
}

func (l *Log) SaveTurn(t Turn) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.db.Exec(`
		INSERT INTO turns (game_id, turn, piece, rotation, x, y, equity, command, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.GameID, t.Turn, t.Piece, t.Rotation, t.X, t.Y, t.Equity, t.Command, time.Now().UTC())
	return err
}

func (l *Log) SaveGame(g Game) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.db.Exec(`
		INSERT OR REPLACE INTO games (id, profile, size, started_at, ended_at, pieces, lines)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Profile, g.Size, g.StartedAt.UTC(), g.EndedAt.UTC(), g.Pieces, g.Lines)
	return err
}

// GameSummaries returns the most recently finished games first.
func (l *Log) GameSummaries(limit int) ([]Game, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows, err := l.db.Query(`
		SELECT id, profile, size, started_at, ended_at, pieces, lines
		FROM games ORDER BY ended_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Profile, &g.Size, &g.StartedAt, &g.EndedAt,
			&g.Pieces, &g.Lines); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// TurnCount is the number of decisions recorded for a game.
func (l *Log) TurnCount(gameID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM turns WHERE game_id = ?`, gameID).Scan(&n)
	return n, err
}

func (l *Log) Close() error {
	return l.db.Close()
}
