package lumen

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pborman/uuid"
)

// ---- core built-ins ----------------------------------------------------
//
// The interpreter core does not depend on any particular native being
// present; these registrations just populate the globals frame with the
// standard set. Hosts can add their own through Interpreter.Globals().

func registerCoreBuiltins(g *Env) {
	// str(v) -> string form of any value, matching print's rendering
	g.Define("str", FunVal(NewNative("str", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return Str(Stringify(args[0])), nil
	})))

	// len(s) -> number of bytes in a string
	g.Define("len", FunVal(NewNative("len", 1, func(_ *Interpreter, args []Value) (Value, error) {
		if args[0].Tag != VTStr {
			return Nil, fmt.Errorf("len expects a string")
		}
		return Num(float64(len(args[0].Data.(string)))), nil
	})))

	// typeOf(v) -> the value's kind as a string
	g.Define("typeOf", FunVal(NewNative("typeOf", 1, func(_ *Interpreter, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTNil:
			return Str("nil"), nil
		case VTBool:
			return Str("boolean"), nil
		case VTNum:
			return Str("number"), nil
		case VTStr:
			return Str("string"), nil
		case VTFun:
			return Str("function"), nil
		case VTClass:
			return Str("class"), nil
		default:
			return Str("instance"), nil
		}
	})))

	// uuid() -> random UUID string
	g.Define("uuid", FunVal(NewNative("uuid", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Str(uuid.New()), nil
	})))

	// readLine() -> one line from stdin, nil at end of input
	g.Define("readLine", FunVal(NewNative("readLine", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return Nil, nil
		}
		if n := len(line); n > 0 && line[n-1] == '\n' {
			line = line[:n-1]
		}
		return Str(line), nil
	})))
}

var stdin = bufio.NewReader(os.Stdin)
