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

// Package xboard contains the XBoardHandler data structure and functionality
// to handle the XBoard/CECP protocol communication between a chess user
// interface and the engine. It is a thin command surface over the same
// search, position and move generation the uci package drives - the engine
// core stays protocol agnostic behind the uciInterface.UciDriver callback
// interface which this handler implements as well.
package xboard

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
	"github.com/clarkforge/corvid/internal/evaluator"
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

// game result values as reported to the interface
type gameResult int

const (
	noResult gameResult = iota
	drawResult
	checkmateResult
)

// XBoardHandler handles all communication with a chess ui via the
// XBoard/CECP protocol and controls search and game state.
// Create an instance with NewXBoardHandler()
type XBoardHandler struct {
	InIo  *bufio.Scanner
	OutIo *bufio.Writer

	myMoveGen  *movegen.Movegen
	mySearch   *search.Search
	myPosition *position.Position
	myPerft    *movegen.Perft

	// game state - XBoard is stateful in a way UCI is not: the engine
	// owns the game position, plays one side and keeps the clock state
	// between commands.
	engineSide Color
	forceMode  bool
	analyzing  bool
	gameOver   bool
	thinking   bool

	// clock state from time/level/st/sd commands
	timeLeft        time.Duration
	increment       time.Duration
	movesPerSession int
	secondsPerMove  time.Duration
	depthLimit      int
}

// ///////////////////////////////////////////////////////////
// Public
// ///////////////////////////////////////////////////////////

// NewXBoardHandler creates a new XBoardHandler instance.
// Input / Output io can be replaced by changing the instance's
// InIo and OutIo members.
func NewXBoardHandler() *XBoardHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	x := &XBoardHandler{
		InIo:            bufio.NewScanner(os.Stdin),
		OutIo:           bufio.NewWriter(os.Stdout),
		myMoveGen:       movegen.NewMoveGen(),
		mySearch:        search.NewSearch(),
		myPosition:      position.NewPosition(),
		myPerft:         movegen.NewPerft(),
		engineSide:      Black,
		movesPerSession: 40,
		timeLeft:        4 * time.Minute,
	}
	var driver uciInterface.UciDriver
	driver = x
	x.mySearch.SetUciHandler(driver)
	return x
}

// Loop starts the main loop to receive commands through the
// input stream (pipe or user)
func (x *XBoardHandler) Loop() {
	for x.InIo.Scan() {
		if x.handleReceivedCommand(x.InIo.Text()) {
			return
		}
	}
}

// Command handles a single line of XBoard protocol aka command.
// Returns the protocol response as string output.
// Mostly useful for debugging and unit testing.
func (x *XBoardHandler) Command(cmd string) string {
	tmp := x.OutIo
	buffer := new(bytes.Buffer)
	x.OutIo = bufio.NewWriter(buffer)
	x.handleReceivedCommand(cmd)
	if !x.analyzing {
		x.mySearch.WaitWhileSearching()
	}
	_ = x.OutIo.Flush()
	x.OutIo = tmp
	return buffer.String()
}

// //////////////////////////////////////////////////////////
// uciInterface.UciDriver callbacks - called by the search
// //////////////////////////////////////////////////////////

// SendReadyOk is a no-op for XBoard - readiness is implied by the
// synchronous ping/pong exchange handled in the command loop.
func (x *XBoardHandler) SendReadyOk() {
}

// SendInfoString sends an arbitrary comment line to the interface.
// Lines starting with '#' are ignored by XBoard compatible interfaces.
func (x *XBoardHandler) SendInfoString(info string) {
	x.send(out.Sprintf("# %s", info))
}

// SendIterationEndInfo sends the post format thinking output:
//  <depth> <score in cp> <time in centiseconds> <nodes> <pv>
func (x *XBoardHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, searchTime time.Duration, pv moveslice.MoveSlice) {
	x.send(fmt.Sprintf("%d %d %d %d %s",
		depth, value, searchTime.Milliseconds()/10, nodes, pv.StringUci()))
}

// SendAspirationResearchInfo sends thinking output for an aspiration
// re-search - same post format as a completed iteration.
func (x *XBoardHandler) SendAspirationResearchInfo(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, searchTime time.Duration, pv moveslice.MoveSlice) {
	x.send(fmt.Sprintf("%d %d %d %d %s",
		depth, value, searchTime.Milliseconds()/10, nodes, pv.StringUci()))
}

// SendCurrentRootMove is not part of the XBoard post output.
func (x *XBoardHandler) SendCurrentRootMove(currMove Move, moveNumber int) {
}

// SendSearchUpdate is not part of the XBoard post output.
func (x *XBoardHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, time time.Duration, hashfull int) {
}

// SendCurrentLine is not part of the XBoard post output.
func (x *XBoardHandler) SendCurrentLine(moveList moveslice.MoveSlice) {
}

// SendResult receives the best move from the search. When the engine
// was thinking about its own move it is played on the game position and
// announced with "move <m>". In analyze mode the result is discarded.
func (x *XBoardHandler) SendResult(bestMove Move, ponderMove Move) {
	if !x.thinking {
		return
	}
	x.thinking = false
	if bestMove == MoveNone {
		return
	}
	// an illegal engine move here means the move generation is broken -
	// report and refuse to play it
	if !x.myMoveGen.ValidateMove(x.myPosition, bestMove) {
		log.Criticalf("Invalid move by engine: %s", bestMove.StringUci())
		x.send(out.Sprintf("Invalid move by engine: %s", bestMove.StringUci()))
		return
	}
	x.myPosition.DoMove(bestMove)
	x.send(out.Sprintf("move %s", bestMove.StringUci()))
	if x.checkResult() != noResult {
		x.gameOver = true
	}
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

var regexWhiteSpace = regexp.MustCompile("\\s+")

// a bare coordinate move like e2e4 or e7e8q (usermove is optional
// with feature usermove=1 but some interfaces send moves bare)
var regexBareMove = regexp.MustCompile("^[a-h][1-8][a-h][1-8][nbrqNBRQ]?$")

func (x *XBoardHandler) handleReceivedCommand(cmd string) bool {
	if len(cmd) == 0 {
		return false
	}
	log.Debugf("Received command: %s", cmd)
	tokens := regexWhiteSpace.Split(strings.TrimSpace(cmd), -1)
	switch tokens[0] {
	case "quit":
		x.stopSearch()
		x.mySearch.Quit()
		return true
	case "protover":
		x.protoverCommand()
	case "xboard":
		// the initial mode switch needs no answer
	case "ping":
		if len(tokens) > 1 {
			x.send(out.Sprintf("pong %s", tokens[1]))
		}
	case "new":
		x.newCommand()
	case "setboard":
		x.setboardCommand(tokens)
	case "time":
		x.timeCommand(tokens)
	case "otim":
		// opponent clock is not used
	case "level":
		x.levelCommand(tokens)
	case "st":
		x.stCommand(tokens)
	case "sd":
		x.sdCommand(tokens)
	case "force":
		x.stopSearch()
		x.forceMode = true
	case "go":
		x.goCommand()
	case "analyze":
		x.analyzeCommand()
	case "exit":
		x.stopSearch()
		x.analyzing = false
	case "undo":
		x.undoCommand()
	case "result":
		x.stopSearch()
		x.gameOver = true
	case "?":
		// move now - the pending result callback plays the move
		x.mySearch.StopSearch()
	case "usermove":
		if len(tokens) > 1 {
			x.userMove(tokens[1])
		}
	case "memory":
		x.memoryCommand(tokens)
	case "cores":
		x.coresCommand(tokens)
	case "egtpath":
		x.egtpathCommand(tokens)
	case "option":
		x.optionCommand(tokens)
	case "perft":
		x.perftCommand(tokens)
	case "eval":
		x.evalCommand()
	case "post", "nopost", "hard", "easy", "random", "computer", "accepted", "rejected", "name", "rating":
		// accepted silently - post output is always on, pondering and
		// strength adjustments are not handled here
	default:
		if regexBareMove.MatchString(tokens[0]) {
			x.userMove(tokens[0])
		} else {
			x.send(out.Sprintf("Error (unknown command): %s", cmd))
		}
	}
	return false
}

// protoverCommand answers with the feature set of this engine.
func (x *XBoardHandler) protoverCommand() {
	x.send("feature done=0")
	x.send("feature ping=1")
	x.send(out.Sprintf("feature myname=\"Corvid %s\"", version.Version()))
	x.send("feature reuse=1")
	x.send("feature sigint=0")
	x.send("feature sigterm=0")
	x.send("feature setboard=1")
	x.send("feature colors=0")
	x.send("feature usermove=1")
	x.send("feature memory=1")
	x.send("feature time=1")
	x.send("feature smp=1")
	x.send("feature egt=\"syzygy\"")
	x.send("feature analyze=1")
	x.send("feature done=1")
}

func (x *XBoardHandler) newCommand() {
	x.stopSearch()
	x.myPosition = position.NewPosition()
	x.mySearch.NewGame()
	x.engineSide = Black
	x.forceMode = false
	x.analyzing = false
	x.gameOver = false
	x.movesPerSession = 40
	x.timeLeft = 4 * time.Minute
	x.increment = 0
	x.secondsPerMove = 0
	x.depthLimit = 0
}

func (x *XBoardHandler) setboardCommand(tokens []string) {
	x.stopSearch()
	if len(tokens) < 2 {
		x.send("Error (setboard): missing FEN")
		return
	}
	fen := strings.Join(tokens[1:], " ")
	p, err := position.NewPositionFen(fen)
	if err != nil {
		x.send(out.Sprintf("tellusererror Illegal position: %s", fen))
		log.Warningf("setboard with invalid fen: %s", fen)
		return
	}
	x.myPosition = p
	x.gameOver = false
}

// timeCommand sets our remaining clock time. XBoard sends centiseconds.
func (x *XBoardHandler) timeCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	centis, err := strconv.Atoi(tokens[1])
	if err != nil {
		x.send(out.Sprintf("Error (time): %s", tokens[1]))
		return
	}
	x.timeLeft = time.Duration(centis) * 10 * time.Millisecond
}

// levelCommand reads "level <mps> <minutes[:seconds]> <increment-seconds>".
func (x *XBoardHandler) levelCommand(tokens []string) {
	if len(tokens) < 4 {
		x.send(out.Sprintf("Error (level): %s", strings.Join(tokens, " ")))
		return
	}
	mps, err1 := strconv.Atoi(tokens[1])
	base := tokens[2]
	inc, err3 := strconv.ParseFloat(tokens[3], 64)
	minutes := 0
	seconds := 0
	var err2 error
	if strings.Contains(base, ":") {
		parts := strings.SplitN(base, ":", 2)
		minutes, err2 = strconv.Atoi(parts[0])
		if err2 == nil {
			seconds, err2 = strconv.Atoi(parts[1])
		}
	} else {
		minutes, err2 = strconv.Atoi(base)
	}
	if err1 != nil || err2 != nil || err3 != nil {
		x.send(out.Sprintf("Error (level): %s", strings.Join(tokens, " ")))
		return
	}
	x.movesPerSession = mps
	x.timeLeft = time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	x.increment = time.Duration(inc * float64(time.Second))
	x.secondsPerMove = 0
}

// stCommand sets an exact number of seconds per move.
func (x *XBoardHandler) stCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	sec, err := strconv.Atoi(tokens[1])
	if err != nil {
		x.send(out.Sprintf("Error (st): %s", tokens[1]))
		return
	}
	x.secondsPerMove = time.Duration(sec) * time.Second
}

// sdCommand limits the search depth.
func (x *XBoardHandler) sdCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	d, err := strconv.Atoi(tokens[1])
	if err != nil {
		x.send(out.Sprintf("Error (sd): %s", tokens[1]))
		return
	}
	x.depthLimit = d
}

func (x *XBoardHandler) goCommand() {
	x.stopSearch()
	x.forceMode = false
	x.engineSide = x.myPosition.NextPlayer()
	if x.gameOver {
		x.checkResult()
		return
	}
	if x.checkResult() != noResult {
		x.gameOver = true
		return
	}
	x.startThinking()
}

func (x *XBoardHandler) analyzeCommand() {
	x.stopSearch()
	x.analyzing = true
	x.forceMode = true
	sl := search.NewSearchLimits()
	sl.Infinite = true
	x.mySearch.StartSearch(*x.myPosition, *sl)
}

func (x *XBoardHandler) undoCommand() {
	x.stopSearch()
	if x.myPosition.LastMove() != MoveNone {
		x.myPosition.UndoMove()
	}
	x.gameOver = false
	x.forceMode = true
	if x.analyzing {
		x.analyzeCommand()
	}
}

// userMove parses and plays a move from the interface. Illegal or
// unparseable moves are reported and ignored.
func (x *XBoardHandler) userMove(moveStr string) {
	x.stopSearch()
	move := x.myMoveGen.GetMoveFromUci(x.myPosition, moveStr)
	if move == MoveNone {
		x.send(out.Sprintf("Illegal move: %s", moveStr))
		return
	}
	x.myPosition.DoMove(move)
	if x.gameOver {
		x.checkResult()
		return
	}
	if x.checkResult() != noResult {
		x.gameOver = true
		return
	}
	if x.analyzing {
		x.analyzeCommand()
		return
	}
	if !x.forceMode && x.engineSide == x.myPosition.NextPlayer() {
		x.startThinking()
	}
}

func (x *XBoardHandler) memoryCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	mb, err := strconv.Atoi(tokens[1])
	if err != nil {
		x.send(out.Sprintf("Error (memory): %s", tokens[1]))
		return
	}
	config.Settings.Search.TTSize = mb
	x.mySearch.ResizeCache()
}

func (x *XBoardHandler) coresCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	// the search drives a single main search goroutine - accept the
	// command for interface compatibility
	x.SendInfoString(out.Sprintf("cores %s accepted", tokens[1]))
}

func (x *XBoardHandler) egtpathCommand(tokens []string) {
	if len(tokens) > 2 && tokens[1] == "syzygy" {
		// tablebases are a plug-in oracle this build does not probe
		x.SendInfoString(out.Sprintf("egtpath syzygy %s ignored - no tablebases in use", tokens[2]))
		return
	}
	x.send(out.Sprintf("Error (egtpath): %s", strings.Join(tokens, " ")))
}

// optionCommand handles "option NAME=VALUE" for the engine specific
// options announced via feature lines.
func (x *XBoardHandler) optionCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	parts := strings.SplitN(strings.Join(tokens[1:], " "), "=", 2)
	name := parts[0]
	value := ""
	if len(parts) > 1 {
		value = parts[1]
	}
	switch name {
	case "Hash":
		if mb, err := strconv.Atoi(value); err == nil {
			config.Settings.Search.TTSize = mb
			x.mySearch.ResizeCache()
			return
		}
	case "Ponder":
		if b, err := strconv.ParseBool(value); err == nil {
			config.Settings.Search.UsePonder = b
			return
		}
	case "Clear Hash":
		x.mySearch.ClearHash()
		return
	}
	x.send(out.Sprintf("Error (unknown option): %s", name))
}

func (x *XBoardHandler) perftCommand(tokens []string) {
	depth := 4 // default
	if len(tokens) > 1 {
		if d, err := strconv.Atoi(tokens[1]); err == nil {
			depth = d
		} else {
			x.send(out.Sprintf("Error (perft): %s", tokens[1]))
			return
		}
	}
	go x.myPerft.StartPerft(x.myPosition.StringFen(), depth, true)
}

func (x *XBoardHandler) evalCommand() {
	e := evaluator.NewEvaluator()
	x.send(out.Sprintf("evaluation = %d", e.Evaluate(x.myPosition)))
	x.send(out.Sprintf("phase = %d", x.myPosition.GamePhase()))
}

// startThinking computes search limits from the clock state and starts
// the search. The engine's move is played in the SendResult callback.
func (x *XBoardHandler) startThinking() {
	sl := search.NewSearchLimits()
	switch {
	case x.depthLimit > 0 && x.secondsPerMove == 0 && x.timeLeft == 0:
		sl.Depth = x.depthLimit
	case x.secondsPerMove > 0:
		sl.MoveTime = x.secondsPerMove
		sl.TimeControl = true
	default:
		sl.TimeControl = true
		sl.WhiteTime = x.timeLeft
		sl.BlackTime = x.timeLeft
		sl.WhiteInc = x.increment
		sl.BlackInc = x.increment
		if x.movesPerSession > 0 {
			sl.MovesToGo = x.movesPerSession -
				((x.myPosition.MoveNumber() - 1) % x.movesPerSession)
		}
	}
	if x.depthLimit > 0 {
		sl.Depth = x.depthLimit
	}
	x.thinking = true
	x.mySearch.StartSearch(*x.myPosition, *sl)
}

// checkResult tests the game position for a decided game and reports
// the result line to the interface.
func (x *XBoardHandler) checkResult() gameResult {
	p := x.myPosition
	if p.HalfMoveClock() >= 100 {
		x.send("1/2-1/2 {Fifty move rule}")
		return drawResult
	}
	if p.HasInsufficientMaterial() {
		x.send("1/2-1/2 {Insufficient material}")
		return drawResult
	}
	if p.CheckRepetitions(2) {
		x.send("1/2-1/2 {Threefold repetition}")
		return drawResult
	}
	if !x.myMoveGen.HasLegalMove(p) {
		if p.HasCheck() {
			if p.NextPlayer() == White {
				x.send("0-1 {Black mates}")
			} else {
				x.send("1-0 {White mates}")
			}
			return checkmateResult
		}
		x.send("1/2-1/2 {Stalemate}")
		return drawResult
	}
	return noResult
}

// stopSearch stops a running search and waits until the search has
// actually finished so game state updates stay ordered.
func (x *XBoardHandler) stopSearch() {
	x.thinking = false
	x.mySearch.StopSearch()
	x.mySearch.WaitWhileSearching()
}

// sends any string to the XBoard user interface
func (x *XBoardHandler) send(s string) {
	_, _ = x.OutIo.WriteString(s + "\n")
	_ = x.OutIo.Flush()
}
