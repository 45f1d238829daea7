package turnplayer

import (
	"encoding/binary"

	"github.com/cespare/xxhash"

	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/tetromino"
)

// The server resends the same board when our command is lost or late.
// Remembering the last few decisions avoids searching again.
type decisionCache struct {
	size    int
	entries map[uint64]*Decision
	order   []uint64
}

func newDecisionCache(size int) *decisionCache {
	return &decisionCache{size: size, entries: make(map[uint64]*Decision)}
}

func (c *decisionCache) get(key uint64) (*Decision, bool) {
	d, ok := c.entries[key]
	return d, ok
}

func (c *decisionCache) put(key uint64, d *Decision) {
	if c.size <= 0 {
		return
	}
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.size {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[key] = d
	c.order = append(c.order, key)
}

func (c *decisionCache) len() int {
	return len(c.entries)
}

func decisionKey(m glass.Model, kind tetromino.Kind, point tetromino.Cell) uint64 {
	size := m.Size()
	buf := make([]byte, 0, 16+size*size/8+1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size))
	buf = append(buf, byte(kind))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(point.X)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(point.Y)))
	bits := make([]byte, (size*size+7)/8)
	for _, c := range m.DroppedCells() {
		i := c.Y*size + c.X
		bits[i/8] |= 1 << (i % 8)
	}
	return xxhash.Sum64(append(buf, bits...))
}
