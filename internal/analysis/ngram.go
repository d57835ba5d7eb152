package analysis

import (
	"sort"
	"strings"

	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// maxOccurrences caps the sample positions kept per n-gram.
const maxOccurrences = 10

// NGram is a move sequence that repeats within a session.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence is where an n-gram started.
type NGramOccurrence struct {
	StartIndex int   `json:"start_index"`
	TsMs       int64 `json:"ts_ms"`
}

// String returns the sequence in notation.
func (g NGram) String() string {
	return strings.Join(g.Sequence, " ")
}

// NGramReport holds the top n-grams keyed by length.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// RollingHash is a Rabin-Karp hash over a fixed window of move tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1)
	window []uint8
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31,
		n:      n,
		window: make([]uint8, 0, n),
		pow:    1,
	}
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll pushes token, dropping the oldest once the window is full.
func (rh *RollingHash) Roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 { return rh.hash }

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint8 {
	out := make([]uint8, len(rh.window))
	copy(out, rh.window)
	return out
}

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool { return len(rh.window) == rh.n }

// token packs a move into one byte: face index times three plus turn.
func token(m types.Move) uint8 {
	face := strings.Index(types.FaceOrder, string(m.Face))
	turn := 0
	switch m.Turn {
	case types.TurnCCW:
		turn = 1
	case types.Turn180:
		turn = 2
	}
	return uint8(face*3 + turn)
}

type ngramEntry struct {
	tokens      []uint8
	first       int
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the topK most frequent sequences for each length in
// [minN, maxN]. Only sequences seen at least twice are reported.
func MineNGrams(records []storage.MoveRecord, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	if minN < 1 || len(records) < minN {
		return report
	}

	moves := storage.ToMoves(records)
	tokens := make([]uint8, len(moves))
	for i, m := range moves {
		tokens[i] = token(m)
	}

	for n := minN; n <= maxN && n <= len(tokens); n++ {
		if ngrams := mineN(tokens, moves, records, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report
}

func mineN(tokens []uint8, moves []types.Move, records []storage.MoveRecord, n, topK int) []NGram {
	counts := make(map[uint64][]*ngramEntry)
	var order []*ngramEntry
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}

		start := i - n + 1
		occ := NGramOccurrence{StartIndex: records[start].MoveIndex, TsMs: records[start].TsMs}
		window := rh.Window()

		var entry *ngramEntry
		for _, e := range counts[rh.Hash()] {
			if equal(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: window, first: start}
			counts[rh.Hash()] = append(counts[rh.Hash()], entry)
			order = append(order, entry)
		}
		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	var repeated []*ngramEntry
	for _, e := range order {
		if e.count >= 2 {
			repeated = append(repeated, e)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].count > repeated[j].count
	})
	if len(repeated) > topK {
		repeated = repeated[:topK]
	}

	result := make([]NGram, len(repeated))
	for i, e := range repeated {
		seq := make([]string, n)
		for j, m := range moves[e.first : e.first+n] {
			seq[j] = m.Notation()
		}
		result[i] = NGram{N: n, Sequence: seq, Count: e.count, Occurrences: e.occurrences}
	}
	return result
}

func equal(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
