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
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/clarkforge/corvid/internal/position"
	. "github.com/clarkforge/corvid/internal/types"
)

var out = message.NewPrinter(language.German)

// Perft is the validation harness for move generation and make/unmake:
// it counts all legal leaf nodes of the move tree to a given depth (plus
// a breakdown by move kind) which must match the published counts of the
// standard test positions exactly. There is deliberately no caching of
// node counts - transposition table caching of perft results is unsound
// under Zobrist collisions.
type Perft struct {
	Nodes            uint64
	CheckCounter     uint64
	CheckMateCounter uint64
	CaptureCounter   uint64
	EnpassantCounter uint64
	CastleCounter    uint64
	PromotionCounter uint64
	stopFlag         bool
}

// NewPerft creates a new empty Perft instance
func NewPerft() *Perft {
	return &Perft{}
}

// Stop terminates a perft test which has been started in a goroutine.
func (perft *Perft) Stop() {
	perft.stopFlag = true
}

// StartPerftMulti runs perft tests for all depths from startDepth to
// endDepth on the given position.
// If this has been started in a goroutine it can be stopped via Stop().
func (perft *Perft) StartPerftMulti(fen string, startDepth int, endDepth int, onDemandFlag bool) {
	perft.stopFlag = false
	for depth := startDepth; depth <= endDepth; depth++ {
		if perft.stopFlag {
			out.Print("Perft multi depth stopped\n")
			return
		}
		perft.StartPerft(fen, depth, onDemandFlag)
	}
}

// StartPerft runs a single perft test on the given position and depth
// using either bulk or on demand move generation.
// If this has been started in a goroutine it can be stopped via Stop().
func (perft *Perft) StartPerft(fen string, depth int, onDemandFlag bool) {
	perft.stopFlag = false
	if depth <= 0 {
		depth = 1
	}

	// reset counters and set up position and one generator per depth
	*perft = Perft{}
	p, _ := position.NewPositionFen(fen)
	movegens := make([]*Movegen, depth+1)
	for i := 0; i <= depth; i++ {
		movegens[i] = NewMoveGen()
	}

	out.Printf("Performing PERFT Test for Depth %d\n", depth)
	out.Printf("FEN: %s\n", fen)
	out.Printf("-----------------------------------------\n")

	start := time.Now()
	result := perft.countNodes(depth, p, movegens, onDemandFlag)
	elapsed := time.Since(start)

	if result == 0 {
		out.Print("Perft stopped\n")
		return
	}
	perft.Nodes = result

	out.Printf("Time         : %s\n", elapsed)
	out.Printf("NPS          : %d nps\n", (perft.Nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
	out.Printf("Results:\n")
	out.Printf("   Nodes     : %d\n", perft.Nodes)
	out.Printf("   Captures  : %d\n", perft.CaptureCounter)
	out.Printf("   EnPassant : %d\n", perft.EnpassantCounter)
	out.Printf("   Checks    : %d\n", perft.CheckCounter)
	out.Printf("   CheckMates: %d\n", perft.CheckMateCounter)
	out.Printf("   Castles   : %d\n", perft.CastleCounter)
	out.Printf("   Promotions: %d\n", perft.PromotionCounter)
	out.Printf("-----------------------------------------\n")
	out.Printf("Finished PERFT Test for Depth %d\n\n", depth)
}

// countNodes recursively counts legal nodes to the given depth. Each
// depth uses its own move generator so the on demand iterators do not
// interfere across plies. At depth 1 the move details are counted.
func (perft *Perft) countNodes(depth int, p *position.Position, movegens []*Movegen, onDemand bool) uint64 {
	if perft.stopFlag {
		return 0
	}

	totalNodes := uint64(0)
	mg := movegens[depth]

	// either iterate over the on demand generator or over a fully
	// generated pseudo legal move list
	var nextMove func() Move
	if onDemand {
		hasCheck := p.HasCheck()
		nextMove = func() Move { return mg.GetNextMove(p, GenAll, hasCheck) }
	} else {
		moves := *mg.GeneratePseudoLegalMoves(p, GenAll, p.HasCheck())
		i := 0
		nextMove = func() Move {
			if i >= len(moves) {
				return MoveNone
			}
			m := moves[i]
			i++
			return m
		}
	}

	for move := nextMove(); move != MoveNone; move = nextMove() {
		if perft.stopFlag {
			return 0
		}
		if depth > 1 {
			p.DoMove(move)
			if p.WasLegalMove() {
				totalNodes += perft.countNodes(depth-1, p, movegens, onDemand)
			}
			p.UndoMove()
			continue
		}
		// leaf - count the move details before and after making it
		capture := p.GetPiece(move.To()) != PieceNone
		p.DoMove(move)
		if p.WasLegalMove() {
			totalNodes++
			switch move.MoveType() {
			case EnPassant:
				perft.EnpassantCounter++
				perft.CaptureCounter++
			case Castling:
				perft.CastleCounter++
			case Promotion:
				perft.PromotionCounter++
			}
			if capture {
				perft.CaptureCounter++
			}
			if p.HasCheck() {
				perft.CheckCounter++
			}
			if !movegens[0].HasLegalMove(p) {
				perft.CheckMateCounter++
			}
		}
		p.UndoMove()
	}
	return totalNodes
}
