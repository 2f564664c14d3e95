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

package moveslice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/clarkforge/corvid/internal/types"
)

var (
	e2e4 = CreateMoveValue(SqE2, SqE4, Normal, PtNone, 111)
	d7d5 = CreateMoveValue(SqD7, SqD5, Normal, PtNone, 222)
	e4d5 = CreateMoveValue(SqE4, SqD5, Normal, PtNone, 333)
	d8d5 = CreateMoveValue(SqD8, SqD5, Normal, PtNone, 444)
	b1c3 = CreateMoveValue(SqB1, SqC3, Normal, PtNone, 555)
)

func fiveMoves() *MoveSlice {
	ma := NewMoveSlice(MaxMoves)
	ma.PushBack(e2e4)
	ma.PushBack(d7d5)
	ma.PushBack(e4d5)
	ma.PushBack(d8d5)
	ma.PushBack(b1c3)
	return ma
}

func TestNew(t *testing.T) {
	ma := NewMoveSlice(MaxMoves)
	assert.Equal(t, 0, ma.Len())
	assert.Equal(t, MaxMoves, cap(*ma))
}

func TestPushPopBack(t *testing.T) {
	ma := fiveMoves()
	assert.Equal(t, 5, ma.Len())
	assert.Equal(t, "e2e4 d7d5 e4d5 d8d5 b1c3", ma.StringUci())

	assert.Equal(t, b1c3, ma.PopBack())
	assert.Equal(t, d8d5, ma.PopBack())
	assert.Equal(t, 3, ma.Len())
	assert.Panics(t, func() {
		e := NewMoveSlice(8)
		e.PopBack()
	})
}

func TestAccess(t *testing.T) {
	ma := fiveMoves()
	assert.Equal(t, e2e4, ma.At(0))
	assert.Equal(t, b1c3, ma.At(ma.Len()-1))
	ma.Set(0, b1c3)
	assert.Equal(t, b1c3, ma.At(0))
}

func TestClear(t *testing.T) {
	ma := fiveMoves()
	ma.Clear()
	assert.Equal(t, 0, ma.Len())
	assert.Equal(t, MaxMoves, cap(*ma))
}

func TestClone(t *testing.T) {
	ma := fiveMoves()
	clone := ma.Clone()
	assert.Equal(t, ma.StringUci(), clone.StringUci())
	clone.Set(0, b1c3)
	// the original is not affected
	assert.Equal(t, e2e4, ma.At(0))
}

func TestFilterCopy(t *testing.T) {
	ma := fiveMoves()
	ma2 := NewMoveSlice(cap(*ma))
	ma.FilterCopy(ma2, func(i int) bool {
		return ma.At(i) != e4d5
	})
	// receiver unchanged, destination filtered
	assert.Equal(t, "e2e4 d7d5 e4d5 d8d5 b1c3", ma.StringUci())
	assert.Equal(t, "e2e4 d7d5 d8d5 b1c3", ma2.StringUci())
}

func TestForEach(t *testing.T) {
	ma := fiveMoves()
	count := 0
	ma.ForEach(func(i int) {
		count++
	})
	assert.Equal(t, ma.Len(), count)
}

func TestString(t *testing.T) {
	ma := fiveMoves()
	assert.Contains(t, ma.String(), "MoveList: [5]")
	assert.Equal(t, "e2e4 d7d5 e4d5 d8d5 b1c3", ma.StringUci())
}

func TestSort(t *testing.T) {
	ma := fiveMoves()
	ma.Sort()
	// sorted by descending sort value
	assert.Equal(t, b1c3, ma.At(0))
	assert.Equal(t, e2e4, ma.At(4))
}

func TestSortRandom(t *testing.T) {
	ma := NewMoveSlice(MaxMoves)
	items := 10_000
	for i := 0; i < items; i++ {
		ma.PushBack(Move(rand.Int31()))
	}
	ma.Sort()

	// check - sorted by the sort value carried in the move
	tmp := ma.At(0)
	for i := 0; i < items; i++ {
		assert.True(t, tmp.ValueOf() >= ma.At(i).ValueOf())
		tmp = ma.At(i)
	}
}
