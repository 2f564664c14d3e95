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

package types

import (
	"fmt"
	"strings"

	"github.com/clarkforge/corvid/internal/assert"
)

// Move packs a chess move plus a move-ordering sort key into a single
// 64-bit word. The low 21 bits are the "core" move - the part that is
// meaningful on its own and the part that gets written into a
// transposition table entry. The remaining high bits are a scratch area
// the move generator and search use to carry a sort value alongside the
// move while it sits in a MoveSlice; they are stripped off by MoveOf.
//
//  BITMAP (low to high)
//  |--------------------------- core (21 bits) ----------------------| |---- sort value (32 bits) ----|
//  to[0:5]  from[6:11]  type[12:14]  promo[15:17]  captured[18:20]      value-ValueNA, bits 21:52
//
// type is a MoveType (Normal, Castling, EnPassant, Promotion, DoublePush).
// promo and captured are full PieceType values (PtNone when not applicable).
type Move uint64

const (
	// MoveNone is the zero value - not a valid move.
	MoveNone Move = 0
)

// MoveType distinguishes the five kinds of move the core encoding cares
// about. DoublePush exists as its own type (rather than folding into
// Normal) so a packed move carries enough information on its own to
// know it must set/clear an en passant square on make/unmake.
type MoveType uint8

const (
	Normal     MoveType = 0
	Castling   MoveType = 1
	EnPassant  MoveType = 2
	Promotion  MoveType = 3
	DoublePush MoveType = 4
	// moveTypeLength is the number of defined move types.
	moveTypeLength MoveType = 5
)

// IsValid checks whether mt is one of the defined move types.
func (mt MoveType) IsValid() bool {
	return mt < moveTypeLength
}

var moveTypeToString = [moveTypeLength]string{"Normal", "Castling", "EnPassant", "Promotion", "DoublePush"}

// String returns a human-readable label for the move type.
func (mt MoveType) String() string {
	if !mt.IsValid() {
		return "Invalid"
	}
	return moveTypeToString[mt]
}

const (
	fromShift     uint = 6
	typeShift     uint = 12
	promTypeShift uint = 15
	capturedShift uint = 18
	valueShift    uint = 21

	squareMask Move = 0x3F
	toMask          = squareMask
	fromMask        = squareMask << fromShift

	pieceTypeMask Move = 0x7 // PieceType fits 3 bits (PtNone..Queen == 0..6)
	moveTypeMask  Move = pieceTypeMask << typeShift
	promTypeMask  Move = pieceTypeMask << promTypeShift
	capturedMask  Move = pieceTypeMask << capturedShift

	coreMask  Move = (1 << valueShift) - 1 // low 21 bits - from/to/type/promo/captured
	valueMask Move = 0xFFFFFFFF << valueShift
)

// CreateMove returns an encoded, quiet (no capture) Move.
func CreateMove(from Square, to Square, t MoveType, promType PieceType) Move {
	return CreateMoveCapture(from, to, t, promType, PtNone)
}

// CreateMoveCapture returns an encoded Move that also records the type
// of piece captured by the move (PtNone for non-captures). Capture
// information travels with the move itself so a transposition-table
// entry and a SEE swap-list can both read it back off the packed word
// without consulting the position.
func CreateMoveCapture(from Square, to Square, t MoveType, promType PieceType, capturedType PieceType) Move {
	return Move(to) |
		Move(from)<<fromShift |
		Move(t)<<typeShift |
		Move(promType)<<promTypeShift |
		Move(capturedType)<<capturedShift
}

// CreateMoveValue returns an encoded Move including a move-ordering sort value.
func CreateMoveValue(from Square, to Square, t MoveType, promType PieceType, value Value) Move {
	return CreateMoveCapture(from, to, t, promType, PtNone).SetValue(value)
}

// CreateMoveValueCapture is CreateMoveValue plus the captured piece type.
func CreateMoveValueCapture(from Square, to Square, t MoveType, promType PieceType, capturedType PieceType, value Value) Move {
	m := CreateMoveCapture(from, to, t, promType, capturedType)
	return m.SetValue(value)
}

// MoveType returns the type of the move.
func (m Move) MoveType() MoveType {
	return MoveType((m & moveTypeMask) >> typeShift)
}

// PromotionType returns the PieceType the pawn promotes to. Must be
// ignored (and reads as PtNone) when MoveType is not Promotion.
func (m Move) PromotionType() PieceType {
	return PieceType((m & promTypeMask) >> promTypeShift)
}

// CapturedType returns the PieceType of the piece this move captures,
// or PtNone if the move is not a capture.
func (m Move) CapturedType() PieceType {
	return PieceType((m & capturedMask) >> capturedShift)
}

// IsCapture reports whether the move captures a piece (including en
// passant, which carries CapturedType Pawn).
func (m Move) IsCapture() bool {
	return m.CapturedType() != PtNone
}

// To returns the to-Square of the move.
func (m Move) To() Square {
	return Square(m & toMask)
}

// From returns the from-Square of the move.
func (m Move) From() Square {
	return Square((m & fromMask) >> fromShift)
}

// MoveOf strips the sort value, leaving only the core 21-bit move.
func (m Move) MoveOf() Move {
	return m & coreMask
}

// ValueOf returns the sort value carried alongside the move.
func (m Move) ValueOf() Value {
	return Value((m&valueMask)>>valueShift) + ValueNA
}

// SetValue encodes the given value into the high bits of the move and
// returns the updated move (it does not mutate the receiver in place -
// callers that need the update persisted must assign the result back,
// same as CreateMoveValue does).
func (m Move) SetValue(v Value) Move {
	if assert.DEBUG {
		assert.Assert(v == ValueNA || v.IsValid(), "Invalid move sort value: %d", v)
	}
	if m == MoveNone {
		return m
	}
	return m.MoveOf() | Move(uint32(v-ValueNA))<<valueShift
}

// IsValid checks if the move has valid squares, promotion/captured type
// and move type. MoveNone is not a valid move in this sense.
func (m Move) IsValid() bool {
	return m != MoveNone &&
		m.From().IsValid() &&
		m.To().IsValid() &&
		m.PromotionType().IsValid() &&
		m.CapturedType().IsValid() &&
		m.MoveType().IsValid() &&
		(m.ValueOf() == ValueNA || m.ValueOf().IsValid())
}

// String is a full, debug-oriented representation of a move.
func (m Move) String() string {
	if m == MoveNone {
		return "Move: { MoveNone }"
	}
	return fmt.Sprintf("Move: { %-5s  type:%-10s  prom:%1s  capt:%1s  value:%-6d  (%d) }",
		m.StringUci(), m.MoveType().String(), m.PromotionType().Char(), m.CapturedType().Char(), m.ValueOf(), m)
}

// StringUci is the long-algebraic UCI representation of a move, e.g. "e7e8q".
func (m Move) StringUci() string {
	if m == MoveNone {
		return "NoMove"
	}
	var os strings.Builder
	os.WriteString(m.From().String())
	os.WriteString(m.To().String())
	if m.MoveType() == Promotion {
		os.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return os.String()
}

// StringBits returns a string with the bitfields of a Move broken out,
// e.g. Move { From[000100](e1) To[000110](g1) Type[001](Castling) Prom[000](-) Capt[000](-) value[...](-15001) (4358)}
func (m Move) StringBits() string {
	return fmt.Sprintf(
		"Move { From[%-0.6b](%s) To[%-0.6b](%s) Type[%-0.3b](%s) Prom[%-0.3b](%s) Capt[%-0.3b](%s) value[%-0.32b](%d) (%d)}",
		m.From(), m.From().String(),
		m.To(), m.To().String(),
		m.MoveType(), m.MoveType().String(),
		m.PromotionType(), m.PromotionType().Char(),
		m.CapturedType(), m.CapturedType().Char(),
		m.ValueOf(), m.ValueOf(),
		uint64(m))
}
