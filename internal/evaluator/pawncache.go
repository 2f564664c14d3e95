/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	"math"

	"github.com/clarkforge/corvid/internal/config"
	"github.com/clarkforge/corvid/internal/position"
	. "github.com/clarkforge/corvid/internal/types"
)

// pawnCache caches pawn structure scores keyed by the position's pawn
// Zobrist key. Pawn structures repeat across many positions of a search
// so most evaluations are served from here. Unlike the main TT it is
// strictly per evaluator instance and needs no concurrency protection.
type pawnCache struct {
	data        []cacheEntry
	hashKeyMask uint64
	entries     uint64
	hits        uint64
	misses      uint64
	replace     uint64
}

// cacheEntry pairs the pawn key with the cached score. A direct key
// comparison validates a hit.
type cacheEntry struct {
	pawnKey position.Key
	score   Score
}

// entrySize is the approximate size in bytes of one cacheEntry.
const entrySize = 16

// newPawnCache creates a pawn cache with the configured size in MB,
// rounded down to a power of two entries for mask based indexing.
func newPawnCache() *pawnCache {
	pc := &pawnCache{}
	sizeInByte := uint64(config.Settings.Eval.PawnCacheSize) * MB
	capacity := uint64(1) << uint64(math.Floor(math.Log2(float64(sizeInByte/entrySize))))
	pc.data = make([]cacheEntry, capacity)
	pc.hashKeyMask = capacity - 1
	return pc
}

// getEntry returns the cached entry for the pawn key or nil on a miss.
func (pc *pawnCache) getEntry(key position.Key) *cacheEntry {
	e := &pc.data[uint64(key)&pc.hashKeyMask]
	if e.pawnKey == key {
		pc.hits++
		return e
	}
	pc.misses++
	return nil
}

// put stores a score for the pawn structure, always replacing what
// occupied the slot.
func (pc *pawnCache) put(key position.Key, score *Score) {
	e := &pc.data[uint64(key)&pc.hashKeyMask]
	switch {
	case e.pawnKey == 0:
		pc.entries++
	case e.pawnKey != key:
		pc.replace++
	}
	e.pawnKey = key
	e.score = *score
}

// len returns the number of used entries in the cache
func (pc *pawnCache) len() uint64 {
	return pc.entries
}

// clear drops all entries and statistics, the capacity is kept.
func (pc *pawnCache) clear() {
	pc.data = make([]cacheEntry, len(pc.data))
	pc.entries = 0
	pc.hits = 0
	pc.misses = 0
	pc.replace = 0
}
