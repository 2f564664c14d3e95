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

// Package enginelog sets up the single, module-scoped op/go-logging logger
// shared by every internal package. Each package calls GetLog() once at
// init/construction time and caches the result in a package level var.
package enginelog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"

	"github.com/clarkforge/corvid/internal/util"
)

var log *logging.Logger

// GetLog returns the shared engine logger, creating it on first use.
// Subsequent calls return the already configured instance so that all
// packages funnel through the same backend and level.
func GetLog() *logging.Logger {
	if log != nil {
		return log
	}
	log = logging.MustGetLogger("engine")
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortfile:15s} %{level:7s}: %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(backend, format)
	backendLeveled := logging.AddModuleLevel(backendFormatter)
	backendLeveled.SetLevel(logging.DEBUG, "")
	log.SetBackend(backendLeveled)
	return log
}

// SetLevel adjusts the level of the shared "engine" logger module at
// runtime.
func SetLevel(lvl logging.Level) {
	logging.SetLevel(lvl, "engine")
}

var testLog *logging.Logger

// GetTestLog returns a separate logger instance used by test suites so test
// chatter does not interleave with the engine's own log backend.
func GetTestLog() *logging.Logger {
	if testLog != nil {
		return testLog
	}
	testLog = logging.MustGetLogger("test")
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortfile:15s} %{level:7s}: %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(backend, format)
	backendLeveled := logging.AddModuleLevel(backendFormatter)
	backendLeveled.SetLevel(logging.DEBUG, "")
	testLog.SetBackend(backendLeveled)
	return testLog
}

// GetFileLog returns a logger which writes to <logdir>/<binary>_<name>.log
// with the given level - used for the protocol conversation logs and the
// search trace. When the directory can not be resolved or the file not be
// created the logger falls back to stderr.
func GetFileLog(name string, dir string, level logging.Level) *logging.Logger {
	l := logging.MustGetLogger(name)
	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s}: %{message}`)

	// stderr fallback until the file backend is up
	fallback := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), format))
	fallback.SetLevel(level, "")
	l.SetBackend(fallback)

	logPath, err := util.ResolveFolder(dir)
	if err != nil {
		l.Warningf("Log folder could not be found: %s", err)
		return l
	}
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")
	logFile, err := os.OpenFile(filepath.Join(logPath, exeName+"_"+name+".log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		l.Warningf("Logfile could not be created: %s", err)
		return l
	}
	fileBackend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(logFile, "", 0), format))
	fileBackend.SetLevel(level, "")
	l.SetBackend(fileBackend)
	l.Infof("Log %s started", logFile.Name())
	return l
}
