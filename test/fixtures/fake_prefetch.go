// Package fixtures provides test helpers shared by unit and integration tests.
package fixtures

import (
	"encoding/binary"
	"time"
	"unicode/utf16"
)

// PrefetchBuffer builds synthetic .pf file contents with the layout the
// parser expects: version + SCCA signature, run count, FILETIME run-time
// array, and an optional UTF-16LE path payload.
type PrefetchBuffer struct {
	Version  uint32
	RunCount uint32
	RunTimes []time.Time
	Paths    []string
}

// NewPrefetchBuffer creates a builder for a modern (version 30) file.
func NewPrefetchBuffer() *PrefetchBuffer {
	return &PrefetchBuffer{Version: 30}
}

const (
	filetimeTicksPerMilli = 10_000
	filetimeEpochDeltaMs  = 11_644_473_600_000
)

// Bytes renders the buffer.
func (b *PrefetchBuffer) Bytes() []byte {
	buf := make([]byte, 0x200)
	binary.LittleEndian.PutUint32(buf[0:], b.Version)
	copy(buf[4:], "SCCA")

	countOffset := 0xD0
	if b.Version < 26 {
		countOffset = 0x90
	}
	binary.LittleEndian.PutUint32(buf[countOffset:], b.RunCount)

	for i, t := range b.RunTimes {
		if i == 8 {
			break
		}
		ticks := uint64(t.UnixMilli()+filetimeEpochDeltaMs) * filetimeTicksPerMilli
		binary.LittleEndian.PutUint64(buf[0x80+8*i:], ticks)
	}

	for _, p := range b.Paths {
		buf = append(buf, encodeUTF16(p)...)
		buf = append(buf, 0, 0)
	}
	return buf
}

func encodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}
