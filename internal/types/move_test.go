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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateMove(t *testing.T) {
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())
	assert.Equal(t, Normal, m.MoveType())
	assert.Equal(t, PtNone, m.PromotionType())
	assert.Equal(t, PtNone, m.CapturedType())
	assert.False(t, m.IsCapture())

	m = CreateMove(SqE1, SqG1, Castling, PtNone)
	assert.Equal(t, SqE1, m.From())
	assert.Equal(t, SqG1, m.To())
	assert.Equal(t, Castling, m.MoveType())

	m = CreateMove(SqA2, SqA1, Promotion, Queen)
	assert.Equal(t, Queen, m.PromotionType())
	assert.Equal(t, Promotion, m.MoveType())

	m = CreateMove(SqE2, SqE4, DoublePush, PtNone)
	assert.Equal(t, DoublePush, m.MoveType())
}

func TestCreateMoveCapture(t *testing.T) {
	m := CreateMoveCapture(SqD4, SqE5, Normal, PtNone, Pawn)
	assert.Equal(t, SqD4, m.From())
	assert.Equal(t, SqE5, m.To())
	assert.Equal(t, Pawn, m.CapturedType())
	assert.True(t, m.IsCapture())

	m = CreateMoveCapture(SqE5, SqD6, EnPassant, PtNone, Pawn)
	assert.Equal(t, EnPassant, m.MoveType())
	assert.Equal(t, Pawn, m.CapturedType())

	m = CreateMoveCapture(SqB7, SqA8, Promotion, Queen, Rook)
	assert.Equal(t, Queen, m.PromotionType())
	assert.Equal(t, Rook, m.CapturedType())
	assert.True(t, m.IsCapture())
}

func TestMove_MoveOf(t *testing.T) {
	m := CreateMoveValueCapture(SqD4, SqE5, Normal, PtNone, Pawn, 123)
	assert.Equal(t, Value(123), m.ValueOf())
	core := m.MoveOf()
	assert.Equal(t, ValueNA, core.ValueOf()) // stripping the sort value zeroes that field out
	assert.Equal(t, SqD4, core.From())
	assert.Equal(t, SqE5, core.To())
	assert.Equal(t, Pawn, core.CapturedType())
}

func TestMove_SetValue(t *testing.T) {
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	m = m.SetValue(999)
	assert.Equal(t, Value(999), m.ValueOf())
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())

	m = CreateMove(SqA2, SqA1, Promotion, Queen)
	m = m.SetValue(ValueMax)
	assert.Equal(t, ValueMax, m.ValueOf())
	assert.Equal(t, Queen, m.PromotionType())

	m = CreateMove(SqE2, SqE4, Normal, PtNone)
	m = m.SetValue(-4001)
	assert.Equal(t, Value(-4001), m.ValueOf())
}

func TestMove_StringUci(t *testing.T) {
	assert.Equal(t, "e2e4", CreateMove(SqE2, SqE4, Normal, PtNone).StringUci())
	assert.Equal(t, "e7e5", CreateMove(SqE7, SqE5, Normal, PtNone).StringUci())
	assert.Equal(t, "a2a1q", CreateMove(SqA2, SqA1, Promotion, Queen).StringUci())
}

func TestMove_IsValid(t *testing.T) {
	assert.True(t, CreateMove(SqE2, SqE4, Normal, PtNone).IsValid())
	assert.False(t, MoveNone.IsValid())
}
