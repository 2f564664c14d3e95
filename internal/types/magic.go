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

// Magic holds the magic bitboard data for one square: the relevant
// occupancy mask, the magic multiplier, the shift and a slice into the
// shared attack table. Lookup is
//   attacks[((occ & Mask) * Magic) >> Shift]
// The "fancy" magic scheme with per square table sizes is used - see
// https://www.chessprogramming.org/Magic_Bitboards (the construction
// follows Stockfish, license see https://stockfishchess.org/about/).
type Magic struct {
	Mask    Bitboard
	Magic   Bitboard
	Attacks []Bitboard
	Shift   uint
}

// index calculates the index into the attack table for the occupancy.
func (m *Magic) index(occupied Bitboard) uint {
	occ := occupied & m.Mask
	occ *= m.Magic
	occ >>= m.Shift
	return uint(occ)
}

// initMagics computes the rook or bishop magics for all squares at
// startup. For each square the relevant occupancy mask is derived, all
// subsets of the mask are enumerated with their true attack sets, and a
// magic multiplier is searched which maps every subset to a collision
// free table index.
func initMagics(table *[]Bitboard, magics *[64]Magic, directions *[4]Direction) {
	// optimal PrnG seeds to pick the correct magics in the shortest time
	seeds := [RankLength]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

	occupancy := [4096]Bitboard{}
	reference := [4096]Bitboard{}
	epoch := [4096]int{}
	cnt := 0
	size := 0

	for sq := SqA1; sq <= SqH8; sq++ {
		m := &(*magics)[sq]
		prepareMask(m, sq, directions)

		// set the offset for the attacks table of the square - each
		// square's table directly follows the previous square's
		if sq == SqA1 {
			m.Attacks = *table
		} else {
			m.Attacks = magics[sq-1].Attacks[size:]
		}

		size = enumerateSubsets(m, sq, directions, &occupancy, &reference)
		findMagic(m, size, seeds[sq.RankOf()], &occupancy, &reference, &epoch, &cnt)
	}
}

// prepareMask sets the relevant occupancy mask and shift for a square.
// Board edges are not part of the mask - a piece there blocks nothing
// behind it.
func prepareMask(m *Magic, sq Square, directions *[4]Direction) {
	edges := ((Rank1_Bb | Rank8_Bb) &^ sq.RankOf().Bb()) | ((FileA_Bb | FileH_Bb) &^ sq.FileOf().Bb())
	m.Mask = slidingAttack(directions, sq, BbZero) &^ edges
	m.Shift = uint(64 - m.Mask.PopCount())
}

// enumerateSubsets walks all subsets of the mask with the Carry-Rippler
// trick and stores each occupancy with its true (slowly computed) attack
// set. Returns the number of subsets.
// https://www.chessprogramming.org/Traversing_Subsets_of_a_Set
func enumerateSubsets(m *Magic, sq Square, directions *[4]Direction, occupancy *[4096]Bitboard, reference *[4096]Bitboard) int {
	b := BbZero
	size := 0
	for {
		occupancy[size] = b
		reference[size] = slidingAttack(directions, sq, b)
		size++
		b = (b - m.Mask) & m.Mask
		if b == 0 { // do - while(b)
			break
		}
	}
	return size
}

// findMagic searches random sparse multipliers until one maps every
// occupancy subset to an index whose table slot holds exactly the
// matching attack set. The epoch array avoids clearing the table after
// every failed attempt.
func findMagic(m *Magic, size int, seed uint64, occupancy *[4096]Bitboard, reference *[4096]Bitboard, epoch *[4096]int, cnt *int) {
	rng := newPrnG(seed)
	for i := 0; i < size; {
		for m.Magic = 0; ; {
			m.Magic = Bitboard(rng.sparseRand())
			if ((m.Magic * m.Mask) >> 56).PopCount() < 6 {
				break
			}
		}
		// verify the magic - building up the table is a side effect
		*cnt++
		for i = 0; i < size; i++ {
			idx := m.index(occupancy[i])
			if epoch[idx] < *cnt {
				epoch[idx] = *cnt
				m.Attacks[idx] = reference[i]
			} else if m.Attacks[idx] != reference[i] {
				break
			}
		}
	}
}

// slidingAttack calculates sliding attacks along the given directions
// for the given square and board occupation by walking the board. Too
// slow for the hot path - only used to build the tables at startup.
func slidingAttack(directions *[4]Direction, sq Square, occupied Bitboard) Bitboard {
	attack := BbZero
	for i := 0; i < 4; i++ {
		s := sq
		for {
			s = s.To(directions[i])
			if !s.IsValid() {
				break
			}
			attack.PushSquare(s)
			if occupied.Has(s) {
				break
			}
			if !s.To(directions[i]).IsValid() || SquareDistance(s, s.To(directions[i])) != 1 {
				break
			}
		}
	}
	return attack
}

// PrnG is the xorshift64star pseudo random number generator used to
// search magic numbers (based on code by Sebastiano Vigna (2014),
// via Stockfish).
type PrnG struct {
	s uint64
}

// newPrnG creates a new instance of the pseudo random generator
func newPrnG(seed uint64) *PrnG {
	return &PrnG{s: seed}
}

func (r *PrnG) rand64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// sparseRand generates numbers with only 1/8th of their bits set on
// average - good candidates for magics.
func (r *PrnG) sparseRand() uint64 {
	return r.rand64() & r.rand64() & r.rand64()
}
