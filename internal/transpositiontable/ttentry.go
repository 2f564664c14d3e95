//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package transpositiontable

import (
	"github.com/clarkforge/corvid/internal/position"
	. "github.com/clarkforge/corvid/internal/types"
)

// TtEntry is a single slot of the transposition table. Unlike a classic
// struct-of-fields entry, everything but the Zobrist key is packed into a
// single 64 bit data word, and the key stored in the slot is not the raw
// Zobrist key but pos_key XOR data.
//
// This is what lets Probe/Put run on the hot search path without any
// per-slot lock: a concurrent writer tears data and key apart into two
// independent 64 bit stores, but a reader that computes entry.key XOR
// entry.data and compares it against the Zobrist key of the position being
// probed will only ever see it match when both words belong to the same
// write - any half-written slot (one goroutine's data racing another's key)
// XORs back to garbage instead of a plausible-looking collision. A direct
// key-equality check over a torn read cannot tell the difference; the xor
// check can.
//
// data bit layout (low to high):
//
//	move[0:20]  flag[21:22]  depth[23:31]  score[32:63]
type TtEntry struct {
	data uint64
	key  uint64 // zobristKey XOR data
}

// TtEntrySize is the size in bytes for each TtEntry.
const TtEntrySize = 16

const (
	ttMoveBits  = 21
	ttFlagBits  = 2
	ttDepthBits = 9

	ttMoveShift  = 0
	ttFlagShift  = ttMoveShift + ttMoveBits  // 21
	ttDepthShift = ttFlagShift + ttFlagBits  // 23
	ttScoreShift = ttDepthShift + ttDepthBits // 32

	ttMoveMask  uint64 = (1 << ttMoveBits) - 1
	ttFlagMask  uint64 = (1 << ttFlagBits) - 1
	ttDepthMask uint64 = (1 << ttDepthBits) - 1
)

// packData assembles the data word from its fields.
func packData(move Move, depth int8, valueType ValueType, value Value) uint64 {
	return (uint64(move.MoveOf())&ttMoveMask)<<ttMoveShift |
		(uint64(valueType)&ttFlagMask)<<ttFlagShift |
		(uint64(depth)&ttDepthMask)<<ttDepthShift |
		uint64(uint32(int32(value)))<<ttScoreShift
}

// Move returns the move stored in this entry (no sort value attached).
func (e *TtEntry) Move() Move {
	return Move((e.data >> ttMoveShift) & ttMoveMask)
}

// Flag returns the bound type (Exact/Alpha/Beta) stored in this entry.
func (e *TtEntry) Flag() ValueType {
	return ValueType((e.data >> ttFlagShift) & ttFlagMask)
}

// Depth returns the search depth this entry was stored at.
func (e *TtEntry) Depth() int8 {
	return int8((e.data >> ttDepthShift) & ttDepthMask)
}

// Value returns the search score stored in this entry.
func (e *TtEntry) Value() Value {
	return Value(int32(uint32(e.data >> ttScoreShift)))
}

// isValid reports whether the slot holds a verified entry for posKey - i.e.
// the xor check passes. A zero slot (never written) always fails this check,
// also against a Zobrist key of 0.
func (e *TtEntry) isValid(posKey position.Key) bool {
	return !e.isEmpty() && e.key^e.data == uint64(posKey)
}

// store writes move/depth/valueType/value for posKey into the slot.
func (e *TtEntry) store(posKey position.Key, move Move, depth int8, value Value, valueType ValueType) {
	e.data = packData(move, depth, valueType, value)
	e.key = uint64(posKey) ^ e.data
}

// isEmpty reports whether the slot has never been written.
func (e *TtEntry) isEmpty() bool {
	return e.data == 0 && e.key == 0
}
