package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	TokenLeft  = "LEFT"
	TokenRight = "RIGHT"
	TokenDown  = "DOWN"
	TokenAct   = "ACT"

	separator = ","
)

// Encode builds the command string for a rotation followed by a
// horizontal shift of dx columns. The rotation comes first, then the
// moves, then exactly one DOWN. The vertical target is never encoded; the
// server's own drop decides where the piece rests.
func Encode(rotation, dx int) string {
	var act string
	if rotation != 0 {
		act = fmt.Sprintf("%s(%d)", TokenAct, rotation)
	}
	var moves []string
	switch {
	case dx > 0:
		moves = lo.Times(dx, func(int) string { return TokenRight })
	case dx < 0:
		moves = lo.Times(-dx, func(int) string { return TokenLeft })
	}
	tokens := append([]string{act}, moves...)
	tokens = append(tokens, TokenDown)
	return strings.Join(lo.Compact(tokens), separator)
}

// Decode is the inverse of Encode. drop reports whether a DOWN token was
// present.
func Decode(cmd string) (rotation, dx int, drop bool, err error) {
	if strings.TrimSpace(cmd) == "" {
		return 0, 0, false, nil
	}
	for _, tok := range strings.Split(cmd, separator) {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == TokenLeft:
			dx--
		case tok == TokenRight:
			dx++
		case tok == TokenDown:
			drop = true
		case strings.HasPrefix(tok, TokenAct+"(") && strings.HasSuffix(tok, ")"):
			n, cerr := strconv.Atoi(tok[len(TokenAct)+1 : len(tok)-1])
			if cerr != nil {
				return 0, 0, false, fmt.Errorf("bad rotation token %q: %w", tok, cerr)
			}
			rotation += n
		case tok == TokenAct:
			rotation++
		default:
			return 0, 0, false, fmt.Errorf("unknown command token %q", tok)
		}
	}
	return rotation, dx, drop, nil
}
