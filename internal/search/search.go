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

// Package search implements the chess engine search: a worker goroutine
// driven by a small state machine runs iterative deepening with a PVS
// alpha beta and quiescence search. The protocol layer talks to the
// worker only through the controller methods (StartSearch, StopSearch,
// ...) - the worker itself never blocks during a search, it polls an
// atomic stop flag on a node cadence.
package search

import (
	"math/rand"
	"sync"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/clarkforge/corvid/internal/config"
	myLogging "github.com/clarkforge/corvid/internal/enginelog"
	"github.com/clarkforge/corvid/internal/evaluator"
	"github.com/clarkforge/corvid/internal/history"
	"github.com/clarkforge/corvid/internal/movegen"
	"github.com/clarkforge/corvid/internal/moveslice"
	"github.com/clarkforge/corvid/internal/openingbook"
	"github.com/clarkforge/corvid/internal/position"
	"github.com/clarkforge/corvid/internal/transpositiontable"
	. "github.com/clarkforge/corvid/internal/types"
	"github.com/clarkforge/corvid/internal/uciInterface"
	"github.com/clarkforge/corvid/internal/util"
)

var out = message.NewPrinter(language.German)

// workerState describes what the search worker goroutine is doing or is
// asked to do next. The controller publishes a target state, the worker
// publishes its current state after each transition. The worker only
// ever blocks (on the condition variable) in the waiting state - a
// running search never suspends.
type workerState int32

const (
	waiting workerState = iota
	thinking
	analyzing
	quitting
)

func (ws workerState) String() string {
	switch ws {
	case waiting:
		return "waiting"
	case thinking:
		return "thinking"
	case analyzing:
		return "analyzing"
	case quitting:
		return "quitting"
	}
	return "unknown"
}

// Search owns one search worker goroutine plus all per-search state
// (move generators, pv lists, history tables). The transposition table
// is the only structure which may be shared between search instances -
// it needs no lock thanks to its xor verified entries.
// Create with NewSearch().
type Search struct {
	log  *logging.Logger
	slog *logging.Logger

	uciHandlerPtr uciInterface.UciDriver

	// worker coordination - see workerState
	stateMu       sync.Mutex
	stateCond     *sync.Cond
	targetState   workerState
	currState     workerState
	workerStarted bool

	// job handover from controller to worker, written by StartSearch
	// under stateMu and read once by the worker on wake up
	nextPosition position.Position
	nextLimits   Limits

	// cooperative cancellation - read lock free on the hot search path
	stopFlag *util.Bool

	book    *openingbook.Book
	tt      *transpositiontable.TtTable
	eval    *evaluator.Evaluator
	history *history.History

	// previous search
	lastSearchResult *Result
	hasResult        bool

	// current search state
	startTime         time.Time
	searchLimits      *Limits
	timeLimit         time.Duration
	extraTime         time.Duration
	nodesVisited      uint64
	mg                []*movegen.Movegen
	pv                []*moveslice.MoveSlice
	rootMoves         *moveslice.MoveSlice
	hadBookMove       bool
	lastUciUpdateTime time.Time
	statistics        Statistics
}

// //////////////////////////////////////////////////////
// // Public
// //////////////////////////////////////////////////////

// NewSearch creates a new Search instance. The worker goroutine is
// started lazily with the first search.
func NewSearch() *Search {
	s := &Search{
		log:      myLogging.GetLog(),
		slog:     getSearchTraceLog(),
		stopFlag: util.NewBool(false),
		eval:     evaluator.NewEvaluator(),
		history:  history.NewHistory(),
	}
	s.stateCond = sync.NewCond(&s.stateMu)
	return s
}

// NewGame stops any running searches and resets the search state
// to be ready for a different game. Any caches or states will be reset.
func (s *Search) NewGame() {
	s.StopSearch()
	if s.tt != nil {
		s.tt.Clear()
		s.history = history.NewHistory()
	}
}

// StartSearch hands a copy of the position and the search limits to the
// worker and wakes it up. It returns as soon as the worker has taken
// the job over, so a directly following StopSearch is guaranteed to
// address this search. Ignored with an error log when a search is
// already running.
func (s *Search) StartSearch(p position.Position, sl Limits) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.currState == thinking || s.currState == analyzing {
		s.log.Error("Search already running")
		return
	}
	if s.currState == quitting {
		s.log.Error("Search worker has quit - no further searches possible")
		return
	}
	s.ensureWorker()
	s.nextPosition = p
	s.nextLimits = sl
	if sl.Infinite || sl.Ponder {
		s.targetState = analyzing
	} else {
		s.targetState = thinking
	}
	s.stateCond.Broadcast()
	// synchronous transition - wait until the worker has published the
	// new state (and reset the stop flag) before returning
	for s.currState != s.targetState {
		s.stateCond.Wait()
	}
}

// StopSearch stops a running search as quickly as possible.
// The search stops gracefully and a result will be sent to UCI.
// This will wait for the search to be stopped before returning.
func (s *Search) StopSearch() {
	s.stopFlag.Store(true)
	s.WaitWhileSearching()
}

// Quit sends the worker to its terminal state. A running search is
// stopped first. After Quit the instance can not start searches any
// more.
func (s *Search) Quit() {
	s.StopSearch()
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if !s.workerStarted || s.currState == quitting {
		return
	}
	s.targetState = quitting
	s.stateCond.Broadcast()
	for s.currState != quitting {
		s.stateCond.Wait()
	}
}

// PonderHit is called by the protocol layer when the move we are
// pondering on was actually played by the opponent. The running ponder
// search is then put under time control without being interrupted.
// If no search is running this has no effect.
func (s *Search) PonderHit() {
	if s.IsSearching() && s.searchLimits.Ponder {
		s.log.Debug("Ponderhit during search - activating time control")
		s.startTimer()
		return
	}
	s.log.Warning("Ponderhit received while not pondering")
}

// IsSearching checks if search is running.
func (s *Search) IsSearching() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.currState == thinking || s.currState == analyzing
}

// WaitWhileSearching blocks until the worker is back in its waiting
// state (or has quit).
func (s *Search) WaitWhileSearching() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	for s.currState == thinking || s.currState == analyzing {
		s.stateCond.Wait()
	}
}

// SetUciHandler sets the UCI handler to communicate with the
// UCI user interface. If not set output will be sent to Stdout.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// GetUciHandlerPtr returns the current UciHandler or nil if none is set.
func (s *Search) GetUciHandlerPtr() uciInterface.UciDriver {
	return s.uciHandlerPtr
}

// IsReady initializes the search (opening book, transposition table)
// and then signals readiness to the protocol layer.
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		s.log.Debug("uci >> readyok")
	}
}

// ClearHash clears the transposition table.
// Is ignored with a warning while searching.
func (s *Search) ClearHash() {
	if s.IsSearching() {
		msg := "Can't clear hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	if s.tt != nil {
		s.tt.Clear()
		s.sendInfoStringToUci("Hash cleared")
	}
}

// ResizeCache resizes and clears the transposition table.
// Is ignored with a warning while searching.
func (s *Search) ResizeCache() {
	if s.IsSearching() {
		msg := "Can't resize hash while searching."
		s.uciHandlerPtr.SendInfoString(msg)
		s.log.Warning(msg)
		return
	}
	// just remove the tt pointer and re-initialize
	s.tt = nil
	s.initialize()
	// good point in time to let the garbage collector do its work
	s.log.Debug(util.GcWithStats())
	if s.tt != nil {
		s.uciHandlerPtr.SendInfoString(out.Sprintf("Hash resized: %s", s.tt.String()))
	}
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// ensureWorker starts the worker goroutine once.
// Must be called with stateMu held.
func (s *Search) ensureWorker() {
	if s.workerStarted {
		return
	}
	s.workerStarted = true
	go s.workerLoop()
}

// workerLoop is the worker goroutine's state machine. In waiting state
// it sleeps on the condition variable; when the controller publishes
// thinking or analyzing it takes over the pending job, runs the search
// and falls back to waiting; quitting terminates the goroutine.
func (s *Search) workerLoop() {
	s.stateMu.Lock()
	for {
		switch s.targetState {
		case waiting:
			s.currState = waiting
			s.stateCond.Broadcast()
			for s.targetState == waiting {
				s.stateCond.Wait()
			}
		case thinking, analyzing:
			// take over the job and reset the stop flag before
			// publishing the state so that a StopSearch directly after
			// StartSearch can not get lost
			p := s.nextPosition
			sl := s.nextLimits
			s.stopFlag.Store(false)
			s.currState = s.targetState
			s.stateCond.Broadcast()
			s.stateMu.Unlock()

			s.run(&p, &sl)

			s.stateMu.Lock()
			s.targetState = waiting
		case quitting:
			s.currState = quitting
			s.stateCond.Broadcast()
			s.stateMu.Unlock()
			s.log.Debug("Search worker terminated")
			return
		}
	}
}

// run is executed by the worker for each search job. It initializes the
// per-search state, consults the opening book, runs iterative deepening
// and publishes the result.
func (s *Search) run(p *position.Position, sl *Limits) {
	s.startTime = time.Now()
	s.log.Infof("Searching: %s", p.StringFen())

	// fresh state for this search run
	s.hasResult = false
	s.timeLimit = 0
	s.extraTime = 0
	s.nodesVisited = 0
	s.statistics = Statistics{}
	s.lastUciUpdateTime = s.startTime
	s.searchLimits = sl
	s.initialize()
	s.preparePerPlyData()

	s.logSearchLimits(p, sl)

	// when not pondering and search is time controlled start the timer
	// which will raise the stop flag when the allotted time is used up
	if sl.TimeControl && !sl.Ponder {
		s.startTimer()
	}

	// probe the opening book in time controlled games
	bookMove := s.probeBook(p, sl)

	if s.tt != nil {
		s.log.Infof("Transposition Table: Using TT (%s)", s.tt.String())
	} else {
		s.log.Info("Transposition Table: Not using TT")
	}

	var result *Result
	if bookMove != MoveNone {
		result = &Result{BestMove: bookMove, BookMove: true}
		s.hadBookMove = true
	} else {
		result = s.iterativeDeepening(p)
	}

	// In ponder or infinite mode a finished search must not report its
	// result before being told to (stop / ponderhit) - hold it back here.
	if (sl.Ponder || sl.Infinite) && !s.stopFlag.Load() {
		s.log.Debug("Search finished before stopped or ponderhit - waiting for stop/ponderhit")
		for !s.stopFlag.Load() && (sl.Ponder || sl.Infinite) {
			time.Sleep(5 * time.Millisecond)
		}
	}

	result.SearchTime = time.Since(s.startTime)
	result.Pv = *s.pv[0]

	s.log.Info(out.Sprintf("Search finished after %s", result.SearchTime))
	s.log.Info(out.Sprintf("Search depth was %d(%d) with %d nodes visited. NPS = %d nps",
		s.statistics.CurrentSearchDepth, s.statistics.CurrentExtraSearchDepth, s.nodesVisited,
		util.Nps(s.nodesVisited, result.SearchTime)))
	s.log.Debugf("Search stats: %s", s.statistics.String())
	s.log.Infof("Search result: %s", result.String())

	// save result until overwritten by the next search
	s.lastSearchResult = result
	s.hasResult = true

	// make sure a potentially still running timer terminates
	s.stopFlag.Store(true)

	// we send a result in any case - even if the search has been stopped
	s.sendResult(result)
}

// preparePerPlyData allocates one move generator and one pv list per ply.
func (s *Search) preparePerPlyData() {
	s.mg = make([]*movegen.Movegen, 0, MaxDepth+1)
	s.pv = make([]*moveslice.MoveSlice, 0, MaxDepth+1)
	for i := 0; i <= MaxDepth; i++ {
		newMoveGen := movegen.NewMoveGen()
		if config.Settings.Search.UseHistoryCounter || config.Settings.Search.UseCounterMoves {
			newMoveGen.SetHistoryData(s.history)
		}
		s.mg = append(s.mg, newMoveGen)
		s.pv = append(s.pv, moveslice.NewMoveSlice(MaxDepth+1))
	}
}

// probeBook returns a book move for the position or MoveNone when the
// book is disabled, not loaded or has no entry for the position. Books
// are only used in time controlled games.
func (s *Search) probeBook(p *position.Position, sl *Limits) Move {
	if s.book == nil || !config.Settings.Search.UseBook || !sl.TimeControl {
		s.log.Info("Opening Book: Not using book")
		return MoveNone
	}
	bookEntry, found := s.book.GetEntry(p.ZobristKey())
	if found && len(bookEntry.Moves) > 0 {
		rand.Seed(int64(time.Now().Nanosecond()))
		bookMove := Move(bookEntry.Moves[rand.Intn(len(bookEntry.Moves))].Move)
		s.log.Debug("Opening Book: Choosing book move: ", bookMove.StringUci())
		return bookMove
	}
	return MoveNone
}

// iterativeDeepening controls the depth iterations of the search. Each
// iteration runs a full root search (direct, aspiration or MTD(f)). When
// the search is stopped mid-iteration the best move of the last
// completed iteration remains the answer.
func (s *Search) iterativeDeepening(p *position.Position) *Result {
	// on a draw position by repetition or 50-moves rule we do not search
	if s.checkDrawRepAnd50(p, 2) {
		msg := "Search called on DRAW by Repetition or 50-moves-rule"
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return &Result{BestValue: ValueDraw}
	}

	// generate all legal root moves - no moves means mate or stalemate
	s.rootMoves = s.mg[0].GenerateLegalMoves(p, movegen.GenAll)
	if s.rootMoves.Len() == 0 {
		if p.HasCheck() {
			s.statistics.Checkmates++
			msg := "Search called on a mate position"
			s.sendInfoStringToUci(msg)
			s.log.Warning(msg)
			return &Result{BestValue: -ValueCheckMate}
		}
		s.statistics.Stalemates++
		msg := "Search called on a stalemate position"
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return &Result{BestValue: ValueDraw}
	}

	// the first move after the book line gets extra time as we have no
	// pv information from previous iterations yet
	if s.hadBookMove && s.searchLimits.TimeControl && s.searchLimits.MoveTime == 0 {
		s.log.Debugf(out.Sprintf("First non-book move to search. Adding extra time: Before: %d ms After: %s ms",
			s.timeLimit.Milliseconds(), 2*s.timeLimit.Milliseconds()))
		s.addExtraTime(2.0)
		s.hadBookMove = false
	}

	maxDepth := MaxDepth
	if s.searchLimits.Depth > 0 {
		maxDepth = s.searchLimits.Depth
	}

	bestValue := ValueNA

	// ### BEGIN Iterative Deepening
	for iterationDepth := 1; iterationDepth <= maxDepth; iterationDepth++ {
		s.nodesVisited++
		s.statistics.CurrentIterationDepth = iterationDepth
		s.statistics.CurrentSearchDepth = s.statistics.CurrentIterationDepth
		if s.statistics.CurrentExtraSearchDepth < s.statistics.CurrentIterationDepth {
			s.statistics.CurrentExtraSearchDepth = s.statistics.CurrentIterationDepth
		}

		switch {
		case config.Settings.Search.UseAspiration && iterationDepth > 4:
			bestValue = s.aspirationSearch(p, iterationDepth, bestValue)
		case config.Settings.Search.UseMTDf && iterationDepth > 3:
			bestValue = s.mtdf(p, iterationDepth, bestValue)
		default:
			bestValue = s.rootSearch(p, iterationDepth, ValueMin, ValueMax)
		}

		// an aborted iteration is discarded - the previously completed
		// iteration's pv remains the answer. If there is only one move
		// to play we also stop deepening.
		if s.stopConditions() || s.rootMoves.Len() <= 1 {
			break
		}
		// sort root moves for the next iteration
		s.rootMoves.Sort()
		s.statistics.CurrentBestRootMove = s.pv[0].At(0)
		s.statistics.CurrentBestRootMoveValue = s.pv[0].At(0).ValueOf()
		s.sendIterationEndInfoToUci()
	}
	// ### END OF Iterative Deepening

	// best move is pv[0][0] - the first iteration always completes a
	// depth 1 search so this entry is always set
	result := &Result{
		BestMove:    s.pv[0].At(0).MoveOf(),
		BestValue:   s.pv[0].At(0).ValueOf(),
		PonderMove:  MoveNone,
		SearchDepth: s.statistics.CurrentIterationDepth,
		ExtraDepth:  s.statistics.CurrentExtraSearchDepth,
	}

	// look for a move to ponder on - from the pv or from the TT
	if s.pv[0].Len() > 1 {
		result.PonderMove = s.pv[0].At(1).MoveOf()
	} else if config.Settings.Search.UseTT {
		p.DoMove(result.BestMove)
		ttEntry := s.tt.Probe(p.ZobristKey())
		if ttEntry != nil {
			s.statistics.TTHit++
			result.PonderMove = ttEntry.Move()
			s.log.Debugf(out.Sprintf("Using ponder move from hash: %s", result.PonderMove.StringUci()))
		}
		p.UndoMove()
	}

	return result
}

// initialize sets up the opening book and the transposition table.
// Can be called repeatedly - does the expensive work only once.
func (s *Search) initialize() {
	// opening book
	if config.Settings.Search.UseBook {
		if s.book == nil {
			s.book = openingbook.NewBook()
			bookPath := config.Settings.Search.BookPath
			bookFile := config.Settings.Search.BookFile
			bookFormat, found := openingbook.FormatFromString[config.Settings.Search.BookFormat]
			if !found {
				s.log.Warningf("Book format invalid %s", config.Settings.Search.BookFormat)
				s.book = nil
			}
			err := s.book.Initialize(bookPath, bookFile, bookFormat, true, false)
			if err != nil {
				s.log.Warningf("Book could not be initialized: %s (%s)", bookPath, err)
				s.book = nil
			}
		}
	} else {
		s.log.Info("Opening book is disabled in configuration")
	}

	// transposition table
	if config.Settings.Search.UseTT {
		if s.tt == nil {
			sizeInMByte := config.Settings.Search.TTSize
			if sizeInMByte == 0 {
				sizeInMByte = 64
			}
			s.tt = transpositiontable.NewTtTable(sizeInMByte)
		}
	} else {
		s.log.Info("Transposition Table is disabled in configuration")
	}
}

// stopConditions checks the stop flag and the node limit.
func (s *Search) stopConditions() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag.Store(true)
	}
	return s.stopFlag.Load()
}

// logSearchLimits reports the effective search mode and sets up time
// control when requested.
func (s *Search) logSearchLimits(p *position.Position, sl *Limits) {
	if sl.Infinite {
		s.log.Info("Search mode: Infinite")
	}
	if sl.Ponder {
		s.log.Info("Search mode: Ponder")
	}
	if sl.Mate > 0 {
		s.log.Infof("Search mode: Search for mate in %d", sl.Mate)
	}
	if sl.TimeControl {
		s.timeLimit = s.setupTimeControl(p, sl)
		s.extraTime = 0
		if sl.MoveTime > 0 {
			s.log.Infof("Search mode: Time controlled: Time per move %s", sl.MoveTime)
		} else {
			s.log.Info(out.Sprintf("Search mode: Time controlled: White = %s (inc %s) Black = %s (inc %s) Moves to go: %d",
				sl.WhiteTime, sl.WhiteInc, sl.BlackTime, sl.BlackInc, sl.MovesToGo))
			s.log.Info(out.Sprintf("Search mode: Time limit     : %s", s.timeLimit))
		}
		if sl.Ponder {
			s.log.Info("Search mode: Ponder - time control postponed until ponderhit received")
		}
	} else {
		s.log.Info("Search mode: No time control")
	}
	if sl.Depth > 0 {
		s.log.Debugf("Search mode: Depth limited  : %d", sl.Depth)
	}
	if sl.Nodes > 0 {
		s.log.Infof(out.Sprintf("Search mode: Nodes limited  : %d", sl.Nodes))
	}
	if sl.Moves.Len() > 0 {
		s.log.Infof(out.Sprintf("Search mode: Moves limited  : %s", sl.Moves.StringUci()))
	}
}

// setupTimeControl sets up time control according to the given search limits
// and returns a limit on the duration for the current search.
func (s *Search) setupTimeControl(p *position.Position, sl *Limits) time.Duration {
	if sl.MoveTime > 0 { // mode time per move
		// we need a little room for executing the code
		duration := sl.MoveTime - (20 * time.Millisecond)
		if duration < 0 {
			s.log.Warningf("Very short move time: %s. ", sl.MoveTime)
			return sl.MoveTime
		}
		return duration
	}
	// remaining time mode - estimate a time per move
	movesLeft := int64(sl.MovesToGo)
	if movesLeft == 0 { // default
		// we estimate minimum 15 more moves in final game phases
		// in early game phases this grows up to 40
		movesLeft = int64(15 + (25 * p.GamePhaseFactor()))
	}
	// time left for current player
	var timeLeft time.Duration
	switch p.NextPlayer() {
	case White:
		timeLeft = sl.WhiteTime + time.Duration(movesLeft*sl.WhiteInc.Nanoseconds())
	case Black:
		timeLeft = sl.BlackTime + time.Duration(movesLeft*sl.BlackInc.Nanoseconds())
	}
	// estimate time per move
	timeLimit := time.Duration(timeLeft.Nanoseconds() / movesLeft)
	// account for the runtime of our code
	if timeLimit.Milliseconds() < 100 {
		// limits for very short available time reduced by another 20%
		timeLimit = time.Duration(int64(0.8 * float64(timeLimit.Nanoseconds())))
	} else {
		// reduced by 10%
		timeLimit = time.Duration(int64(0.9 * float64(timeLimit.Nanoseconds())))
	}
	return timeLimit
}

// addExtraTime certain situations might call for a extension or reduction
// of the given time limit for the search. This function add/subtracts
// a portion (%) of the current time limit.
//  Example:
//  f = 1.0 --> no change in search time
//  f = 0.9 --> reduction by 10%
//  f = 1.1 --> extension by 10%
func (s *Search) addExtraTime(f float64) {
	if s.searchLimits.TimeControl && s.searchLimits.MoveTime == 0 {
		duration := time.Duration(int64((f - 1.0) * float64(s.timeLimit.Nanoseconds())))
		s.extraTime += duration
		s.log.Debugf(out.Sprintf("Time added/reduced by %s to %s ",
			duration, s.timeLimit+s.extraTime))
	}
}

// startTimer starts a goroutine which watches the elapsed time against
// the time limit plus any extra time. When the time is up it raises the
// stop flag and terminates. As the time limit can change while running
// (extra time, ponderhit) a fixed timeout can not be used - this is a
// relaxed busy wait.
func (s *Search) startTimer() {
	go func() {
		timerStart := time.Now()
		s.log.Debugf("Timer started with time limit of %s", s.timeLimit)
		for time.Since(timerStart) < s.timeLimit+s.extraTime && !s.stopFlag.Load() {
			time.Sleep(5 * time.Millisecond)
		}
		if s.stopFlag.Load() {
			s.log.Debugf("Timer stopped early after wall time: %s (time limit %s and extra time %s)",
				time.Since(timerStart), s.timeLimit, s.extraTime)
			return
		}
		s.log.Debugf("Timer stops search after wall time: %s (time limit %s and extra time %s)",
			time.Since(timerStart), s.timeLimit, s.extraTime)
		s.stopFlag.Store(true)
	}()
}

// checks repetitions and 50-moves rule. Returns true if the position
// has repeated itself at least the given number of times.
func (s *Search) checkDrawRepAnd50(p *position.Position, i int) bool {
	return p.CheckRepetitions(i) || p.HalfMoveClock() >= 100
}

// sends the search result to the uci handler if a handler is available.
func (s *Search) sendResult(searchResult *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(searchResult.BestMove, searchResult.PonderMove)
	}
}

// sends an info string to the uci handler if a handler is available.
func (s *Search) sendInfoStringToUci(msg string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendInfoString(msg)
	}
}

// send UCI information about search - called on a node cadence from the
// search but rate limited to about once a second.
func (s *Search) sendSearchUpdateToUci() {
	if time.Since(s.lastUciUpdateTime) <= time.Second {
		return
	}
	s.lastUciUpdateTime = time.Now()
	hashfull := 0
	if s.tt != nil {
		hashfull = s.tt.Hashfull()
	}
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendSearchUpdate(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			hashfull)
		s.uciHandlerPtr.SendCurrentRootMove(s.statistics.CurrentRootMove, s.statistics.CurrentRootMoveIndex)
		s.uciHandlerPtr.SendCurrentLine(s.statistics.CurrentVariation)
	} else {
		s.log.Infof(out.Sprintf("depth %d seldepth %d value %s nodes %d nps %d time %d hashful %d",
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue.String(),
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime).Milliseconds(),
			hashfull))
	}
}

// send UCI information after each depth iteration.
func (s *Search) sendIterationEndInfoToUci() {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendIterationEndInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			*s.pv[0])
	} else {
		s.log.Infof(out.Sprintf("depth %d seldepth %d value %s nodes %d nps %d time %d pv %s",
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue.String(),
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime).Milliseconds(),
			s.pv[0].StringUci()))
	}
}

// send UCI information about an aspiration re-search with the failed bound.
func (s *Search) sendAspirationResearchInfo(bound string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendAspirationResearchInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue,
			bound,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			*s.pv[0])
	} else {
		s.log.Infof(out.Sprintf("depth %d seldepth %d value %s %s nodes %d nps %d time %d pv %s",
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue.String(),
			bound,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime).Milliseconds(),
			s.pv[0].StringUci()))
	}
}

// helper to calculate current nps relative to s.startTime.
// returns 0 instead of values above 15M, which very small
// times produce.
func (s *Search) getNps() uint64 {
	nps := util.Nps(s.nodesVisited, time.Since(s.startTime)+100)
	if nps > 15_000_000 { // sanity value for very short times
		nps = 0
	}
	return nps
}

// //////////////////////////////////////////////////////
// Getter and Setter
// //////////////////////////////////////////////////////

// LastSearchResult returns a copy of the last search result.
func (s *Search) LastSearchResult() Result {
	return *s.lastSearchResult
}

// NodesVisited returns the number of visited nodes in the last search.
func (s *Search) NodesVisited() uint64 {
	return s.nodesVisited
}

// Statistics returns a pointer to the search statistics of the last search.
func (s *Search) Statistics() *Statistics {
	return &s.statistics
}
