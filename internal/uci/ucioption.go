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

package uci

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	. "github.com/clarkforge/corvid/internal/config"
)

// uciOptionType is the UCI option type as announced to the interface.
type uciOptionType int

const (
	Check  uciOptionType = iota
	Spin   uciOptionType = iota
	Button uciOptionType = iota
)

// uciOption is one entry of the engine's option table. The option list
// is declarative - each option only carries the data for the "option"
// announcement plus a change handler. Most options simply toggle a bool
// in the config settings and are built with boolOption.
type uciOption struct {
	Name     string
	Type     uciOptionType
	Default  string
	Min      string
	Max      string
	onChange func(u *UciHandler, value string)
}

// uciOptions is the ordered option table announced on "uci" and
// consulted on "setoption".
var uciOptions []*uciOption

// boolOption creates a check option which toggles the given config flag.
func boolOption(name string, target *bool) *uciOption {
	return &uciOption{
		Name:    name,
		Type:    Check,
		Default: strconv.FormatBool(*target),
		onChange: func(u *UciHandler, value string) {
			if v, err := strconv.ParseBool(value); err == nil {
				*target = v
				log.Debugf("Set option %s to %v", name, v)
			}
		},
	}
}

func init() {
	uciOptions = []*uciOption{
		{Name: "Print Config", Type: Button, onChange: printConfig},
		{Name: "Clear Hash", Type: Button, onChange: func(u *UciHandler, value string) {
			u.mySearch.ClearHash()
		}},
		boolOption("Use_Hash", &Settings.Search.UseTT),
		{Name: "Hash", Type: Spin, Default: strconv.Itoa(Settings.Search.TTSize), Min: "0", Max: "65000",
			onChange: func(u *UciHandler, value string) {
				if v, err := strconv.Atoi(value); err == nil {
					Settings.Search.TTSize = v
					u.mySearch.ResizeCache()
				}
			}},
		boolOption("Use_Book", &Settings.Search.UseBook),
		boolOption("Ponder", &Settings.Search.UsePonder),

		boolOption("Quiescence", &Settings.Search.UseQuiescence),
		boolOption("Use_QHash", &Settings.Search.UseQSTT),
		boolOption("Use_SEE", &Settings.Search.UseSEE),

		boolOption("Use_IID", &Settings.Search.UseIID),
		boolOption("Use_PVS", &Settings.Search.UsePVS),
		boolOption("Use_Killer", &Settings.Search.UseKiller),
		boolOption("Use_HistCount", &Settings.Search.UseHistoryCounter),
		boolOption("Use_CounterMove", &Settings.Search.UseCounterMoves),

		boolOption("Use_Mdp", &Settings.Search.UseMDP),
		boolOption("Use_Razoring", &Settings.Search.UseRazoring),
		boolOption("Use_Rfp", &Settings.Search.UseRFP),
		boolOption("Use_NullMove", &Settings.Search.UseNullMove),
		boolOption("Use_Fp", &Settings.Search.UseFP),
		boolOption("Use_Qfp", &Settings.Search.UseQFP),
		boolOption("Use_Lmr", &Settings.Search.UseLmr),
		boolOption("Use_Lmp", &Settings.Search.UseLmp),

		boolOption("Use_Ext", &Settings.Search.UseExt),
		boolOption("Use_ExtAddDepth", &Settings.Search.UseExtAddDepth),
		boolOption("Use_CheckExt", &Settings.Search.UseCheckExt),
		boolOption("Use_ThreatExt", &Settings.Search.UseThreatExt),

		boolOption("Eval_Lazy", &Settings.Eval.UseLazyEval),
		boolOption("Eval_Mobility", &Settings.Eval.UseMobility),
		boolOption("Eval_AdvPiece", &Settings.Eval.UseAdvancedPieceEval),
		boolOption("Eval_King", &Settings.Eval.UseKingEval),
		boolOption("Eval_Pawn", &Settings.Eval.UsePawnEval),
	}
}

// findOption returns the option with the given name or nil.
func findOption(name string) *uciOption {
	for _, o := range uciOptions {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// String returns the option announcement line as required by the UCI
// protocol during the initialization phase.
func (o *uciOption) String() string {
	var os strings.Builder
	os.WriteString("option name ")
	os.WriteString(o.Name)
	os.WriteString(" type ")
	switch o.Type {
	case Check:
		os.WriteString("check default ")
		os.WriteString(o.Default)
	case Spin:
		os.WriteString("spin default ")
		os.WriteString(o.Default)
		os.WriteString(" min ")
		os.WriteString(o.Min)
		os.WriteString(" max ")
		os.WriteString(o.Max)
	case Button:
		os.WriteString("button")
	}
	return os.String()
}

// printConfig dumps the current eval and search configuration to the
// interface as info strings. Uses reflection so new config fields show
// up without touching this code.
func printConfig(u *UciHandler, value string) {
	dump := func(title string, v reflect.Value) {
		typeOfT := v.Type()
		for i := v.NumField() - 1; i >= 0; i-- {
			f := v.Field(i)
			u.SendInfoString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
		}
		u.SendInfoString(title + "\n")
	}
	dump("Evaluation Config:", reflect.ValueOf(&Settings.Eval).Elem())
	dump("Search Config:", reflect.ValueOf(&Settings.Search).Elem())
	log.Debug(Settings.String())
}
