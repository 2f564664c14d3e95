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

package config

// logConfiguration is a data structure to hold the configuration of the
// engine's logging subsystem (standard log, search trace log, UCI/XBoard
// protocol log).
type logConfiguration struct {
	LogPath       string
	SearchLogPath string
	UciLogPath    string
	XboardLogPath string
	LogLvl        string
	SearchLogLvl  string
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Log.LogPath = "./logs"
	Settings.Log.SearchLogPath = "./logs"
	Settings.Log.UciLogPath = "./logs"
	Settings.Log.XboardLogPath = "./logs"
	Settings.Log.LogLvl = ""
	Settings.Log.SearchLogLvl = ""
}

// levels as used by op/go-logging
var logLevels = map[string]int{
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}

// setupLogLvl maps the log level names from the config file to the
// numeric levels the loggers are created with. A level named in the
// config file overwrites the stored level; unknown or empty names
// leave it unchanged.
func setupLogLvl() {
	if lvl, ok := logLevels[Settings.Log.LogLvl]; ok {
		LogLevel = lvl
	}
	if lvl, ok := logLevels[Settings.Log.SearchLogLvl]; ok {
		SearchLogLevel = lvl
	}
}
