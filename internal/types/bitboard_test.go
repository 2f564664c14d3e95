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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitboardPushPop(t *testing.T) {
	b := BbZero
	b.PushSquare(SqA1)
	assert.Equal(t, SqA1.Bb(), b)
	assert.True(t, b.Has(SqA1))
	b.PushSquare(SqH8)
	assert.Equal(t, 2, b.PopCount())
	b.PopSquare(SqA1)
	assert.Equal(t, SqH8.Bb(), b)
	b.PopSquare(SqH8)
	assert.Equal(t, BbZero, b)
	// removing from an empty board changes nothing
	b.PopSquare(SqE4)
	assert.Equal(t, BbZero, b)
}

func TestBitboardString(t *testing.T) {
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", BbOne.String())
	assert.Equal(t, "10000000.00000000.00000000.00000000.00000000.00000000.00000000.00000000 (1)", BbOne.StringGrouped())
	assert.Contains(t, SqA1.Bb().StringBoard(), "| X ")
}

func TestBitboardLsbPopLsb(t *testing.T) {
	assert.Equal(t, SqA1, SqA1.Bb().Lsb())
	assert.Equal(t, SqE5, SqE5.Bb().Lsb())
	assert.Equal(t, SqB1, FileB_Bb.Lsb())
	assert.Equal(t, SqA3, Rank3_Bb.Lsb())

	b := SqC2.Bb() | SqG7.Bb()
	assert.Equal(t, SqC2, b.PopLsb())
	assert.Equal(t, SqG7, b.PopLsb())
	assert.Equal(t, SqNone, b.PopLsb())

	count := 0
	b = Rank5_Bb
	for sq := b.PopLsb(); sq != SqNone; sq = b.PopLsb() {
		count++
	}
	assert.Equal(t, 8, count)
}

func TestBitboardShift(t *testing.T) {
	tests := []struct {
		preShift  Bitboard
		shift     Direction
		postShift Bitboard
	}{
		{Rank2_Bb, North, Rank3_Bb},
		{Rank2_Bb, South, Rank1_Bb},
		{Rank8_Bb, North, BbZero},
		{Rank1_Bb, South, BbZero},
		{FileB_Bb, East, FileC_Bb},
		{FileB_Bb, West, FileA_Bb},
		{FileH_Bb, East, BbZero},
		{FileA_Bb, West, BbZero},
		{SqE4.Bb(), Northeast, SqF5.Bb()},
		{SqE4.Bb(), Southeast, SqF3.Bb()},
		{SqE4.Bb(), Southwest, SqD3.Bb()},
		{SqE4.Bb(), Northwest, SqD5.Bb()},
		{SqH4.Bb(), Northeast, BbZero},
		{SqA4.Bb(), Southwest, BbZero},
	}
	for _, test := range tests {
		assert.Equal(t, test.postShift, ShiftBitboard(test.preShift, test.shift),
			"shift %s by %d", test.preShift.StringGrouped(), test.shift)
	}
}

func TestSquareDistance(t *testing.T) {
	assert.Equal(t, 0, SquareDistance(SqA1, SqA1))
	assert.Equal(t, 1, SquareDistance(SqA1, SqB2))
	assert.Equal(t, 7, SquareDistance(SqA1, SqH8))
	assert.Equal(t, 7, SquareDistance(SqA1, SqH1))
	assert.Equal(t, 4, SquareDistance(SqE4, SqE8))
}

func TestPseudoAttacks(t *testing.T) {
	// king in the corner and in the center
	assert.Equal(t, 3, GetPseudoAttacks(King, SqA1).PopCount())
	assert.Equal(t, 8, GetPseudoAttacks(King, SqE4).PopCount())
	// knight
	assert.Equal(t, 2, GetPseudoAttacks(Knight, SqA1).PopCount())
	assert.Equal(t, 8, GetPseudoAttacks(Knight, SqE4).PopCount())
	// sliders on the empty board
	assert.Equal(t, 14, GetPseudoAttacks(Rook, SqE4).PopCount())
	assert.Equal(t, 13, GetPseudoAttacks(Bishop, SqE4).PopCount())
	assert.Equal(t, 27, GetPseudoAttacks(Queen, SqE4).PopCount())
	assert.Equal(t, 7, GetPseudoAttacks(Bishop, SqA1).PopCount())
}

func TestPawnAttacks(t *testing.T) {
	assert.Equal(t, SqD3.Bb()|SqF3.Bb(), GetPawnAttacks(White, SqE2))
	assert.Equal(t, SqD6.Bb()|SqF6.Bb(), GetPawnAttacks(Black, SqE7))
	// edge files have only one attack square
	assert.Equal(t, SqB3.Bb(), GetPawnAttacks(White, SqA2))
	assert.Equal(t, SqG6.Bb(), GetPawnAttacks(Black, SqH7))
}

func TestAttacksWithOccupancy(t *testing.T) {
	// rook on e4 with blockers on e6 and g4
	occ := SqE6.Bb() | SqG4.Bb()
	attacks := GetAttacksBb(Rook, SqE4, occ)
	assert.True(t, attacks.Has(SqE5))
	assert.True(t, attacks.Has(SqE6)) // blocker square is attacked
	assert.False(t, attacks.Has(SqE7))
	assert.True(t, attacks.Has(SqG4))
	assert.False(t, attacks.Has(SqH4))
	assert.True(t, attacks.Has(SqA4))
	assert.True(t, attacks.Has(SqE1))

	// bishop on c1 with blocker on e3
	occ = SqE3.Bb()
	attacks = GetAttacksBb(Bishop, SqC1, occ)
	assert.True(t, attacks.Has(SqD2))
	assert.True(t, attacks.Has(SqE3))
	assert.False(t, attacks.Has(SqF4))
	assert.True(t, attacks.Has(SqB2))
	assert.True(t, attacks.Has(SqA3))

	// queen is the union of rook and bishop attacks
	occ = SqE6.Bb() | SqG4.Bb()
	assert.Equal(t,
		GetAttacksBb(Rook, SqE4, occ)|GetAttacksBb(Bishop, SqE4, occ),
		GetAttacksBb(Queen, SqE4, occ))
}

func TestIntermediate(t *testing.T) {
	assert.Equal(t, SqE2.Bb()|SqE3.Bb(), Intermediate(SqE1, SqE4))
	assert.Equal(t, SqB2.Bb()|SqC3.Bb(), Intermediate(SqA1, SqD4))
	assert.Equal(t, BbZero, Intermediate(SqA1, SqB3)) // not on a line
	assert.Equal(t, BbZero, Intermediate(SqA1, SqB2)) // adjacent
}

func TestNeighbourFilesMask(t *testing.T) {
	assert.Equal(t, FileB_Bb, SqA4.NeighbourFilesMask())
	assert.Equal(t, FileG_Bb, SqH1.NeighbourFilesMask())
	assert.Equal(t, FileD_Bb|FileF_Bb, SqE5.NeighbourFilesMask())
}

func TestPassedPawnMask(t *testing.T) {
	// white pawn e4 - everything in front on d, e and f files
	mask := SqE4.PassedPawnMask(White)
	assert.True(t, mask.Has(SqE5))
	assert.True(t, mask.Has(SqD7))
	assert.True(t, mask.Has(SqF5))
	assert.False(t, mask.Has(SqE3))
	assert.False(t, mask.Has(SqC5))
	// black pawn e5 - mirror
	mask = SqE5.PassedPawnMask(Black)
	assert.True(t, mask.Has(SqE4))
	assert.True(t, mask.Has(SqD2))
	assert.True(t, mask.Has(SqF4))
	assert.False(t, mask.Has(SqE6))
}

func TestCastleMasksAndRights(t *testing.T) {
	assert.Equal(t, SqF1.Bb()|SqG1.Bb()|SqH1.Bb(), KingSideCastleMask(White))
	assert.Equal(t, SqA8.Bb()|SqB8.Bb()|SqC8.Bb()|SqD8.Bb(), QueenSideCastMask(Black))
	assert.Equal(t, CastlingWhite, GetCastlingRights(SqE1))
	assert.Equal(t, CastlingWhiteOO, GetCastlingRights(SqH1))
	assert.Equal(t, CastlingBlackOOO, GetCastlingRights(SqA8))
	assert.Equal(t, CastlingNone, GetCastlingRights(SqD4))
}

func TestSquaresBb(t *testing.T) {
	// 32 squares of each color, complementary
	assert.Equal(t, 32, SquaresBb(White).PopCount())
	assert.Equal(t, 32, SquaresBb(Black).PopCount())
	assert.Equal(t, BbAll, SquaresBb(White)|SquaresBb(Black))
	// a1 is a dark square, h1 a light one
	assert.True(t, SquaresBb(Black).Has(SqA1))
	assert.True(t, SquaresBb(White).Has(SqH1))
}
