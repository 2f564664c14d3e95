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

// Package uci implements the UCI protocol surface of the engine. Like
// its sibling package xboard it is a thin command dispatcher over the
// search, position and move generation layers and implements the
// uciInterface.UciDriver callback interface through which the search
// reports its progress and results.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/clarkforge/corvid/internal/config"
	myLogging "github.com/clarkforge/corvid/internal/enginelog"
	"github.com/clarkforge/corvid/internal/movegen"
	"github.com/clarkforge/corvid/internal/moveslice"
	"github.com/clarkforge/corvid/internal/position"
	"github.com/clarkforge/corvid/internal/search"
	. "github.com/clarkforge/corvid/internal/types"
	"github.com/clarkforge/corvid/internal/uciInterface"
	"github.com/clarkforge/corvid/internal/version"
)

var out = message.NewPrinter(language.German)
var log *logging.Logger

// UciHandler handles all communication with the chess ui via UCI
// and controls options and search.
// Create an instance with NewUciHandler()
type UciHandler struct {
	InIo       *bufio.Scanner
	OutIo      *bufio.Writer
	myMoveGen  *movegen.Movegen
	mySearch   *search.Search
	myPosition *position.Position
	myPerft    *movegen.Perft
	uciLog     *logging.Logger
}

// ///////////////////////////////////////////////////////////
// Public
// ///////////////////////////////////////////////////////////

// NewUciHandler creates a new UciHandler instance.
// Input / Output io can be replaced by changing the instance's
// InIo and OutIo members.
//  Example:
// 		u.InIo = bufio.NewScanner(os.Stdin)
//		u.OutIo = bufio.NewWriter(os.Stdout)
func NewUciHandler() *UciHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	u := &UciHandler{
		InIo:       bufio.NewScanner(os.Stdin),
		OutIo:      bufio.NewWriter(os.Stdout),
		myMoveGen:  movegen.NewMoveGen(),
		mySearch:   search.NewSearch(),
		myPosition: position.NewPosition(),
		myPerft:    movegen.NewPerft(),
		uciLog:     myLogging.GetFileLog("uci", config.Settings.Log.UciLogPath, logging.DEBUG),
	}
	var uciDriver uciInterface.UciDriver
	uciDriver = u
	u.mySearch.SetUciHandler(uciDriver)
	return u
}

// Loop runs the protocol loop until the "quit" command is received
// (or the input stream closes).
func (u *UciHandler) Loop() {
	for u.InIo.Scan() {
		if u.handleReceivedCommand(u.InIo.Text()) {
			return
		}
	}
}

// Command handles a single line of UCI protocol aka command.
// Returns the uci response as string output.
// Mostly useful for debugging and unit testing.
func (u *UciHandler) Command(cmd string) string {
	tmp := u.OutIo
	buffer := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buffer)
	u.handleReceivedCommand(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = tmp
	return buffer.String()
}

// //////////////////////////////////////////////////////////
// uciInterface.UciDriver callbacks - called by the search
// //////////////////////////////////////////////////////////

// SendReadyOk tells the UciDriver to send the uci response "readyok" to the UCI user interface
func (u *UciHandler) SendReadyOk() {
	u.send("readyok")
}

// SendInfoString send a arbitrary string to the UCI user interface
func (u *UciHandler) SendInfoString(info string) {
	u.send(out.Sprintf("info string %s", info))
}

// SendIterationEndInfo sends information about the last search depth iteration to the UCI ui
func (u *UciHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, time time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d multipv 1 score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), nodes, nps, time.Milliseconds(), pv.StringUci()))
}

// SendSearchUpdate sends a periodically update about search stats to the UCI ui
func (u *UciHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, time time.Duration, hashfull int) {
	u.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, time.Milliseconds(), hashfull))
}

// SendAspirationResearchInfo sends information about Aspiration researches to the UCI ui
func (u *UciHandler) SendAspirationResearchInfo(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, time time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d multipv 1 score %s %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), bound, nodes, nps, time.Milliseconds(), pv.StringUci()))
}

// SendCurrentRootMove sends the currently searched root move to the UCI ui
func (u *UciHandler) SendCurrentRootMove(currMove Move, moveNumber int) {
	u.send(fmt.Sprintf("info currmove %s currmovenumber %d", currMove.StringUci(), moveNumber))
}

// SendCurrentLine sends a periodically update about the currently searched variation ti the UCI ui
func (u *UciHandler) SendCurrentLine(moveList moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info currline %s", moveList.StringUci()))
}

// SendResult send the search result to the UCI ui after the search has ended are has been stopped
func (u *UciHandler) SendResult(bestMove Move, ponderMove Move) {
	var resultStr strings.Builder
	resultStr.WriteString("bestmove ")
	resultStr.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		resultStr.WriteString(" ponder ")
		resultStr.WriteString(ponderMove.StringUci())
	}
	u.send(resultStr.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

var regexWhiteSpace = regexp.MustCompile("\\s+")

func (u *UciHandler) handleReceivedCommand(cmd string) bool {
	if len(cmd) == 0 {
		return false
	}
	log.Debugf("Received command: %s", cmd)
	u.uciLog.Infof("<< %s", cmd)
	tokens := regexWhiteSpace.Split(strings.TrimSpace(cmd), -1)
	switch tokens[0] {
	case "quit":
		u.mySearch.Quit()
		return true
	case "uci":
		u.uciCommand()
	case "setoption":
		u.setOptionCommand(tokens)
	case "isready":
		u.mySearch.IsReady()
	case "ucinewgame":
		u.myPosition = position.NewPosition()
		u.mySearch.NewGame()
	case "position":
		u.positionCommand(tokens)
	case "go":
		u.goCommand(tokens)
	case "stop":
		u.mySearch.StopSearch()
		u.myPerft.Stop()
	case "ponderhit":
		u.mySearch.PonderHit()
	case "register", "debug":
		u.sendMalformed("Command '%s' not implemented", tokens[0])
	case "perft":
		u.perftCommand(tokens)
	case "noop":
	default:
		log.Warningf("Error: Unknown command: %s", cmd)
	}
	log.Debugf("Processed command: %s", cmd)
	return false
}

// uciCommand answers with the engine identification and the option table.
func (u *UciHandler) uciCommand() {
	u.send("id name Corvid " + version.Version())
	u.send("id author clarkforge")
	for _, o := range uciOptions {
		u.send(o.String())
	}
	u.send("uciok")
}

// setOptionCommand parses "setoption name <name> [value <value>]" and
// dispatches to the option's change handler.
func (u *UciHandler) setOptionCommand(tokens []string) {
	if len(tokens) < 3 || tokens[1] != "name" {
		u.sendMalformed("Command 'setoption' is malformed")
		return
	}
	// the name can have spaces - read tokens until "value" or the end
	i := 2
	var nameParts []string
	for i < len(tokens) && tokens[i] != "value" {
		nameParts = append(nameParts, tokens[i])
		i++
	}
	name := strings.Join(nameParts, " ")
	value := ""
	if i+1 < len(tokens) && tokens[i] == "value" {
		value = tokens[i+1]
	}
	o := findOption(name)
	if o == nil {
		u.sendMalformed("Command 'setoption': No such option '%s'", name)
		return
	}
	o.onChange(u, value)
}

// positionCommand sets the current position from
// "position {startpos | fen <fen>} [moves <m>...]".
func (u *UciHandler) positionCommand(tokens []string) {
	fen := position.StartFen
	i := 1
	switch {
	case i < len(tokens) && tokens[i] == "startpos":
		i++
	case i < len(tokens) && tokens[i] == "fen":
		i++
		var fenParts []string
		for i < len(tokens) && tokens[i] != "moves" {
			fenParts = append(fenParts, tokens[i])
			i++
		}
		fen = strings.Join(fenParts, " ")
		if len(fen) == 0 {
			u.sendMalformed("Command 'position' malformed. %s", tokens)
			return
		}
	default:
		u.sendMalformed("Command 'position' malformed. %s", tokens)
		return
	}
	p, err := position.NewPositionFen(fen)
	if err != nil {
		u.sendMalformed("Command 'position' malformed. Invalid fen '%s'", fen)
		return
	}
	u.myPosition = p

	// optional move list to replay on the new position
	if i < len(tokens) {
		if tokens[i] != "moves" {
			u.sendMalformed("Command 'position' malformed moves. %s", tokens)
			return
		}
		for i++; i < len(tokens); i++ {
			move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
			if !move.IsValid() {
				u.sendMalformed("Command 'position' malformed. Invalid move '%s' (%s)", tokens[i], tokens)
				return
			}
			u.myPosition.DoMove(move)
		}
	}
	log.Debugf("New position: %s", u.myPosition.StringFen())
}

// goCommand reads the search limits and starts the search.
func (u *UciHandler) goCommand(tokens []string) {
	searchLimits, err := u.readSearchLimits(tokens)
	if err {
		return
	}
	u.mySearch.StartSearch(*u.myPosition, *searchLimits)
}

// perftCommand starts a perft test with the given depth(s).
func (u *UciHandler) perftCommand(tokens []string) {
	depth := 4 // default
	if len(tokens) > 1 {
		if d, e := strconv.Atoi(tokens[1]); e == nil {
			depth = d
		} else {
			log.Warningf("Can't perft on depth='%s'", tokens[1])
		}
	}
	depth2 := depth
	if len(tokens) > 2 {
		if d, e := strconv.Atoi(tokens[2]); e == nil {
			depth2 = d
		} else {
			log.Warningf("Can't use second perft depth2='%s'", tokens[2])
		}
	}
	go u.myPerft.StartPerftMulti(position.StartFen, depth, depth2, true)
}

// readSearchLimits parses the sub commands of "go" into search limits.
// Returns true as second value when the command was malformed.
func (u *UciHandler) readSearchLimits(tokens []string) (*search.Limits, bool) {
	sl := search.NewSearchLimits()

	i := 1
	fail := false
	// nextInt reads the numerical argument of the sub command at i
	nextInt := func(what string) int64 {
		i++
		if i >= len(tokens) {
			u.sendMalformed("UCI command go malformed. Missing value for: %s", what)
			fail = true
			return 0
		}
		v, e := strconv.ParseInt(tokens[i], 10, 64)
		if e != nil {
			u.sendMalformed("UCI command go malformed. %s value not a number: %s", what, tokens[i])
			fail = true
			return 0
		}
		return v
	}
	millis := func(what string) time.Duration {
		return time.Duration(nextInt(what)) * time.Millisecond
	}

	for ; i < len(tokens) && !fail; i++ {
		switch tokens[i] {
		case "moves":
			for i+1 < len(tokens) {
				move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i+1])
				if !move.IsValid() {
					break
				}
				sl.Moves.PushBack(move)
				i++
			}
		case "infinite":
			sl.Infinite = true
		case "ponder":
			sl.Ponder = true
		case "depth":
			sl.Depth = int(nextInt("Depth"))
		case "nodes":
			sl.Nodes = uint64(nextInt("Nodes"))
		case "mate":
			sl.Mate = int(nextInt("Mate"))
		case "movetime", "moveTime":
			// UCI says movetime but some test suites send moveTime
			sl.MoveTime = millis("MoveTime")
			sl.TimeControl = true
		case "wtime":
			sl.WhiteTime = millis("WhiteTime")
			sl.TimeControl = true
		case "btime":
			sl.BlackTime = millis("BlackTime")
			sl.TimeControl = true
		case "winc":
			sl.WhiteInc = millis("WhiteInc")
		case "binc":
			sl.BlackInc = millis("BlackInc")
		case "movestogo":
			sl.MovesToGo = int(nextInt("Movestogo"))
		default:
			u.sendMalformed("UCI command go malformed. Invalid subcommand: %s", tokens[i])
			fail = true
		}
	}
	if fail {
		return nil, true
	}

	// sanity check - at least one limit needs to be in effect
	if !(sl.Infinite || sl.Ponder || sl.Depth > 0 || sl.Nodes > 0 || sl.Mate > 0 || sl.TimeControl) {
		u.sendMalformed("UCI command go malformed. No effective limits set %s", tokens)
		return nil, true
	}
	// sanity check time control - the mover needs time on the clock
	if sl.TimeControl && sl.MoveTime == 0 {
		if u.myPosition.NextPlayer() == White && sl.WhiteTime == 0 {
			u.sendMalformed("UCI command go invalid. White to move but time for white is zero! %s", tokens)
			return nil, true
		} else if u.myPosition.NextPlayer() == Black && sl.BlackTime == 0 {
			u.sendMalformed("UCI command go invalid. Black to move but time for black is zero! %s", tokens)
			return nil, true
		}
	}
	return sl, false
}

// sendMalformed reports a protocol error to the interface and the log.
func (u *UciHandler) sendMalformed(format string, a ...interface{}) {
	msg := out.Sprintf(format, a...)
	u.SendInfoString(msg)
	log.Warning(msg)
}

// sends any string to the UCI user interface
func (u *UciHandler) send(s string) {
	u.uciLog.Infof(">> %s", s)
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
}
