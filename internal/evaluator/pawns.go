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
	. "github.com/clarkforge/corvid/internal/config"
	. "github.com/clarkforge/corvid/internal/types"
)

// multiplier for the passed pawn bonus by relative rank of the pawn.
// A pawn on its start rank is barely passed, one on the 7th is close
// to promotion.
var passedRankFactor = [8]int16{0, 0, 1, 1, 2, 3, 5, 0}

func (e *Evaluator) evaluatePawns() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	// look on cache table
	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			tmpScore.MidGameValue += entry.score.MidGameValue
			tmpScore.EndGameValue += entry.score.EndGameValue
			return &tmpScore
		}
	}

	// no cache hit - calculate from the view of the white player
	white := e.pawnEval(White)
	black := e.pawnEval(Black)
	tmpScore.MidGameValue = white.MidGameValue - black.MidGameValue
	tmpScore.EndGameValue = white.EndGameValue - black.EndGameValue

	// store in cache
	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// pawnEval calculates the pawn structure value for one side: isolated,
// doubled, passed (scaled by rank), blocked, phalanx and supported pawns.
// All work is done on the pawn bitboards and the pre-computed file and
// passed pawn masks.
func (e *Evaluator) pawnEval(us Color) Score {
	var score Score
	them := us.Flip()
	myPawns := e.position.PiecesBb(us, Pawn)
	theirPawns := e.position.PiecesBb(them, Pawn)
	up := us.MoveDirection()

	pawns := myPawns
	for pawns != BbZero {
		sq := pawns.PopLsb()

		// isolated - no own pawn on a neighbour file
		if sq.NeighbourFilesMask()&myPawns == BbZero {
			score.MidGameValue += Settings.Eval.PawnIsolatedMidMalus
			score.EndGameValue += Settings.Eval.PawnIsolatedEndMalus
		}

		// doubled - at least one other own pawn on the same file
		if sq.FileOf().Bb()&myPawns&^sq.Bb() != BbZero {
			score.MidGameValue += Settings.Eval.PawnDoubledMidMalus
			score.EndGameValue += Settings.Eval.PawnDoubledEndMalus
		}

		// passed - no opponent pawn can stop or capture it on its way
		if sq.PassedPawnMask(us)&theirPawns == BbZero {
			r := sq.RankOf()
			if us == Black {
				r = Rank8 - r
			}
			score.MidGameValue += Settings.Eval.PawnPassedMidBonus * passedRankFactor[r]
			score.EndGameValue += Settings.Eval.PawnPassedEndBonus * passedRankFactor[r]
		}

		// blocked - square directly in front is occupied
		if e.position.OccupiedAll().Has(sq.To(up)) {
			score.MidGameValue += Settings.Eval.PawnBlockedMidMalus
			score.EndGameValue += Settings.Eval.PawnBlockedEndMalus
		}

		// phalanx - own pawn directly beside this pawn
		if (ShiftBitboard(sq.Bb(), East)|ShiftBitboard(sq.Bb(), West))&myPawns != BbZero {
			score.MidGameValue += Settings.Eval.PawnPhalanxMidBonus
			score.EndGameValue += Settings.Eval.PawnPhalanxEndBonus
		}

		// supported - own pawn defends this pawn
		if GetPawnAttacks(them, sq)&myPawns != BbZero {
			score.MidGameValue += Settings.Eval.PawnSupportedMidBonus
			score.EndGameValue += Settings.Eval.PawnSupportedEndBonus
		}
	}
	return score
}
