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

package movegen

import (
	"os"
	"path"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clarkforge/corvid/internal/config"
	"github.com/clarkforge/corvid/internal/position"
	. "github.com/clarkforge/corvid/internal/types"
)

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	code := m.Run()
	os.Exit(code)
}

func TestStartPositionMoves(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()

	pseudo := mg.GeneratePseudoLegalMoves(p, GenAll, false)
	assert.Equal(t, 20, pseudo.Len())

	legal := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 20, legal.Len())

	// no captures or promotions possible from the start position
	nonQuiet := mg.GeneratePseudoLegalMoves(p, GenNonQuiet, false)
	assert.Equal(t, 0, nonQuiet.Len())

	quiet := mg.GeneratePseudoLegalMoves(p, GenQuiet, false)
	assert.Equal(t, 20, quiet.Len())
}

func TestKiwipeteMoves(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	// well known legal move count for this position
	legal := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 48, legal.Len())

	// 8 of these are captures
	captures := mg.GenerateLegalMoves(p, GenNonQuiet)
	assert.Equal(t, 8, captures.Len())
}

func TestOnDemandMatchesBulkGeneration(t *testing.T) {
	mgBulk := NewMoveGen()
	mgOd := NewMoveGen()
	p := position.NewPosition("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	bulk := mgBulk.GeneratePseudoLegalMoves(p, GenAll, false).Clone()

	count := 0
	for move := mgOd.GetNextMove(p, GenAll, false); move != MoveNone; move = mgOd.GetNextMove(p, GenAll, false) {
		count++
	}
	assert.Equal(t, bulk.Len(), count)
}

func TestEvasionGeneration(t *testing.T) {
	mg := NewMoveGen()

	// white king on e1 in check by the rook on e4 - only king moves evade
	p := position.NewPosition("4k3/8/8/8/4r3/8/3P4/4K3 w - - 0 1")
	assert.True(t, p.HasCheck())
	legal := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 3, legal.Len()) // Kd1 Kf1 Kf2

	// same but with a queen that can block on e2
	p = position.NewPosition("4k3/8/8/8/4r3/8/3P4/3QK3 w - - 0 1")
	assert.True(t, p.HasCheck())
	legal = mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 3, legal.Len()) // Kf1 Kf2 Qe2

	// double check - only king moves are generated at all
	p = position.NewPosition("4k3/8/8/8/4r3/2b5/8/4K3 w - - 0 1")
	assert.True(t, p.HasCheck())
	legal = mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *legal {
		assert.Equal(t, King, p.GetPiece(m.From()).TypeOf())
	}
}

func TestGetMoveFromUci(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()

	move := mg.GetMoveFromUci(p, "e2e4")
	assert.True(t, move.IsValid())
	assert.Equal(t, SqE2, move.From())
	assert.Equal(t, SqE4, move.To())
	assert.Equal(t, DoublePush, move.MoveType())

	move = mg.GetMoveFromUci(p, "e2e5")
	assert.Equal(t, MoveNone, move)

	// promotion
	p = position.NewPosition("8/4P3/8/8/8/8/8/k2K4 w - - 0 1")
	move = mg.GetMoveFromUci(p, "e7e8q")
	assert.True(t, move.IsValid())
	assert.Equal(t, Promotion, move.MoveType())
	assert.Equal(t, Queen, move.PromotionType())
}

func TestGetMoveFromSan(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()

	move := mg.GetMoveFromSan(p, "e4")
	assert.True(t, move.IsValid())
	assert.Equal(t, SqE4, move.To())

	move = mg.GetMoveFromSan(p, "Nf3")
	assert.True(t, move.IsValid())
	assert.Equal(t, SqF3, move.To())
	assert.Equal(t, SqG1, move.From())
}

func TestCapturedTypeOnGeneratedMoves(t *testing.T) {
	mg := NewMoveGen()
	// black pawn on d5 can be captured by the e4 pawn
	p := position.NewPosition("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	move := mg.GetMoveFromUci(p, "e4d5")
	assert.True(t, move.IsValid())
	assert.True(t, move.IsCapture())
	assert.Equal(t, Pawn, move.CapturedType())

	// non capture carries PtNone
	move = mg.GetMoveFromUci(p, "e4e5")
	assert.True(t, move.IsValid())
	assert.False(t, move.IsCapture())
	assert.Equal(t, PtNone, move.CapturedType())
}

func TestKillerAndPvSorting(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()

	pv := mg.GetMoveFromUci(p, "d2d4")
	killer := mg.GetMoveFromUci(p, "b1c3")
	mg.SetPvMove(pv)
	mg.StoreKiller(killer)

	moves := mg.GeneratePseudoLegalMoves(p, GenAll, false)
	assert.Equal(t, pv, moves.At(0).MoveOf())

	// on demand generation returns the pv move first as well
	mg.ResetOnDemand()
	mg.SetPvMove(pv)
	first := mg.GetNextMove(p, GenAll, false)
	assert.Equal(t, pv, first.MoveOf())
}

func TestHasLegalMove(t *testing.T) {
	mg := NewMoveGen()

	p := position.NewPosition()
	assert.True(t, mg.HasLegalMove(p))

	// stalemate - black to move has no legal move and no check
	p = position.NewPosition("7k/5K2/6Q1/8/8/8/8/8 b - - 0 1")
	assert.False(t, mg.HasLegalMove(p))
	assert.False(t, p.HasCheck())

	// mate - black to move has no legal move and is in check
	p = position.NewPosition("R5k1/8/6K1/8/8/8/8/8 b - - 0 1")
	assert.False(t, mg.HasLegalMove(p))
	assert.True(t, p.HasCheck())
}
