package lumen

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/leekchan/timeutil"
)

// ---- time built-ins ----------------------------------------------------

func registerTimeBuiltins(g *Env) {
	// clock() -> seconds since the Unix epoch, fractional
	g.Define("clock", FunVal(NewNative("clock", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Num(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	})))

	// nowMillis() -> wall-clock milliseconds since the Unix epoch
	g.Define("nowMillis", FunVal(NewNative("nowMillis", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Num(float64(time.Now().UnixMilli())), nil
	})))

	// sleep(ms) -> nil, after pausing the (single) execution thread
	g.Define("sleep", FunVal(NewNative("sleep", 1, func(_ *Interpreter, args []Value) (Value, error) {
		if args[0].Tag != VTNum {
			return Nil, fmt.Errorf("sleep expects milliseconds as a number")
		}
		time.Sleep(time.Duration(args[0].Data.(float64)) * time.Millisecond)
		return Nil, nil
	})))

	// parseTime(s) -> epoch seconds for most common date formats
	g.Define("parseTime", FunVal(NewNative("parseTime", 1, func(_ *Interpreter, args []Value) (Value, error) {
		if args[0].Tag != VTStr {
			return Nil, fmt.Errorf("parseTime expects a string")
		}
		t, err := dateparse.ParseAny(args[0].Data.(string))
		if err != nil {
			return Nil, fmt.Errorf("parseTime: %v", err)
		}
		return Num(float64(t.Unix())), nil
	})))

	// strftime(format, epochSeconds) -> formatted time string
	g.Define("strftime", FunVal(NewNative("strftime", 2, func(_ *Interpreter, args []Value) (Value, error) {
		if args[0].Tag != VTStr || args[1].Tag != VTNum {
			return Nil, fmt.Errorf("strftime expects a format string and epoch seconds")
		}
		sec := args[1].Data.(float64)
		t := time.Unix(int64(sec), 0).UTC()
		return Str(timeutil.Strftime(&t, args[0].Data.(string))), nil
	})))
}
