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

package xboard

import (
	"os"
	"path"
	"runtime"
	"strings"
	"testing"
	"time"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/clarkforge/corvid/internal/config"
	logging "github.com/clarkforge/corvid/internal/enginelog"
)

var logTest *logging2.Logger

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
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestNewXBoardHandler(t *testing.T) {
	x := NewXBoardHandler()
	assert.Same(t, x, x.mySearch.GetUciHandlerPtr())
	assert.Equal(t, 40, x.movesPerSession)
}

func TestProtover(t *testing.T) {
	x := NewXBoardHandler()
	result := x.Command("protover 2")
	assert.Contains(t, result, "feature done=0")
	assert.Contains(t, result, "feature ping=1")
	assert.Contains(t, result, "feature setboard=1")
	assert.Contains(t, result, "feature usermove=1")
	assert.Contains(t, result, "feature myname=")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result), "feature done=1"))
}

func TestPing(t *testing.T) {
	x := NewXBoardHandler()
	result := x.Command("ping 7")
	assert.Equal(t, "pong 7\n", result)
}

func TestUnknownCommand(t *testing.T) {
	x := NewXBoardHandler()
	result := x.Command("gibberish")
	assert.Contains(t, result, "Error (unknown command)")
}

func TestIllegalUserMove(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("force")
	result := x.Command("usermove e2e5")
	assert.Contains(t, result, "Illegal move: e2e5")
	// position unchanged
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", x.myPosition.StringFen())
}

func TestUserMoveUpdatesPosition(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("force")
	x.Command("usermove e2e4")
	assert.True(t, strings.HasPrefix(x.myPosition.StringFen(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR b KQkq e3"))
	// a bare coordinate move without the usermove prefix is accepted as well
	x.Command("e7e5")
	assert.True(t, strings.HasPrefix(x.myPosition.StringFen(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPPPPPP/RNBQKBNR w KQkq e6"))
}

func TestUndo(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("force")
	x.Command("usermove e2e4")
	x.Command("undo")
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", x.myPosition.StringFen())
}

func TestSetboardInvalid(t *testing.T) {
	x := NewXBoardHandler()
	result := x.Command("setboard this is not a fen")
	assert.Contains(t, result, "tellusererror Illegal position")
}

func TestSetboard(t *testing.T) {
	x := NewXBoardHandler()
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	x.Command("setboard " + fen)
	assert.Equal(t, fen, x.myPosition.StringFen())
}

func TestStalemateResult(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("setboard 7k/5K2/6Q1/8/8/8/8/8 b - - 0 1")
	result := x.Command("go")
	assert.Contains(t, result, "1/2-1/2 {Stalemate}")
}

func TestMateResult(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("setboard R5k1/8/6K1/8/8/8/8/8 b - - 0 1")
	result := x.Command("go")
	assert.Contains(t, result, "1-0 {White mates}")
}

func TestThreefoldRepetitionResult(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("force")
	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1"}
	for _, m := range moves {
		result := x.Command("usermove " + m)
		assert.NotContains(t, result, "1/2-1/2")
	}
	// the eighth move brings the start position up for the third time
	result := x.Command("usermove f6g8")
	assert.Contains(t, result, "1/2-1/2 {Threefold repetition}")
}

func TestLevelParsing(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("level 40 5:30 12")
	assert.Equal(t, 40, x.movesPerSession)
	assert.Equal(t, 5*time.Minute+30*time.Second, x.timeLeft)
	assert.Equal(t, 12*time.Second, x.increment)
}

func TestTimeStSdParsing(t *testing.T) {
	x := NewXBoardHandler()
	x.Command("time 6000") // centiseconds
	assert.Equal(t, time.Minute, x.timeLeft)
	x.Command("st 10")
	assert.Equal(t, 10*time.Second, x.secondsPerMove)
	x.Command("sd 5")
	assert.Equal(t, 5, x.depthLimit)
}

func TestEngineRepliesToUserMove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	x := NewXBoardHandler()
	x.Command("new")
	x.Command("st 1")
	x.Command("sd 4")
	// engine plays black and answers after our move
	result := x.Command("usermove e2e4")
	assert.Contains(t, result, "move ")
	// black made a move - white to move again
	assert.Contains(t, x.myPosition.StringFen(), " w ")
}
