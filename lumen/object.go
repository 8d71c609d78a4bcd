// object.go — the runtime value model and the callable object graph the
// evaluator manipulates: tagged values, user functions with captured
// closures, classes, instances, and host-provided natives.
package lumen

import (
	"fmt"
	"math"
	"strconv"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTFun                      // Callable (user function or native)
	VTClass                    // *Class (also a Callable: the constructor)
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier. The tag determines which Go type
// is stored in Data.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the language's absent value.
var Nil = Value{Tag: VTNil}

func Bool(b bool) Value           { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value         { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value          { return Value{Tag: VTStr, Data: s} }
func FunVal(c Callable) Value     { return Value{Tag: VTFun, Data: c} }
func ClassVal(c *Class) Value     { return Value{Tag: VTClass, Data: c} }
func InstVal(i *Instance) Value   { return Value{Tag: VTInstance, Data: i} }

// Truthy maps any value to a boolean for conditionals: nil, false and
// numeric 0 are falsy, everything else is truthy.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64) != 0
	default:
		return true
	}
}

// Equal compares without type coercion: primitives structurally, objects by
// identity.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		return a.Data == b.Data
	}
}

// Stringify renders a value the way print displays it.
func Stringify(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		f := v.Data.(float64)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return v.Data.(Callable).String()
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).class.Name + " instance"
	default:
		return fmt.Sprintf("<unknown %v>", v.Data)
	}
}

// Callable is the capability a value must satisfy to be invoked: a declared
// arity and a call hook that receives the running interpreter.
type Callable interface {
	Arity() int
	Call(ip *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function: a declaration plus the environment
// captured at its creation point. Methods carry isInitializer when they are
// a class's "init".
type Function struct {
	decl          *FunctionExpr
	closure       *Env
	isInitializer bool
}

func NewFunction(decl *FunctionExpr, closure *Env, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.decl.Params) }

func (f *Function) String() string {
	if f.decl.Name != nil {
		return "<fn " + f.decl.Name.Lexeme + ">"
	}
	return "<fn>"
}

// bind wraps the function's closure in a fresh frame defining "this", so the
// method sees the receiving instance. Binding happens at lookup time; the
// class's method table stays unbound and shared.
func (f *Function) bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstVal(inst))
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) Call(ip *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, p := range f.decl.Params {
		env.Define(p.Lexeme, args[i])
	}
	ctrl, err := ip.executeBlock(f.decl.Body, env)
	if err != nil {
		return Nil, err
	}
	if f.isInitializer {
		// init always yields the bound instance, whatever the body returned
		return f.closure.GetAt(0, "this"), nil
	}
	if ctrl.kind == ctrlReturn {
		return ctrl.value, nil
	}
	return Nil, nil
}

// Class is a named, immutable method table. Calling the class constructs an
// instance.
type Class struct {
	Name    string
	methods map[string]*Function
}

func NewClass(name string, methods map[string]*Function) *Class {
	return &Class{Name: name, methods: methods}
}

func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *Class) String() string { return c.Name }

func (c *Class) Arity() int {
	if init, ok := c.methods["init"]; ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(ip *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init, ok := c.methods["init"]; ok {
		if _, err := init.bind(inst).Call(ip, args); err != nil {
			return Nil, err
		}
	}
	// the instance, regardless of what init returned
	return InstVal(inst), nil
}

// Instance holds per-instance field storage; methods live on the class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

// Get resolves a property: fields shadow methods, methods come back bound to
// the instance.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if m, ok := i.class.FindMethod(name); ok {
		return FunVal(m.bind(i)), true
	}
	return Nil, false
}

func (i *Instance) Set(name string, v Value) {
	i.fields[name] = v
}

// Native is a host-provided callable registered in globals at interpreter
// construction.
type Native struct {
	name  string
	arity int
	fn    func(ip *Interpreter, args []Value) (Value, error)
}

func NewNative(name string, arity int, fn func(ip *Interpreter, args []Value) (Value, error)) *Native {
	return &Native{name: name, arity: arity, fn: fn}
}

func (n *Native) Arity() int     { return n.arity }
func (n *Native) String() string { return "<native fn " + n.name + ">" }

func (n *Native) Call(ip *Interpreter, args []Value) (Value, error) {
	return n.fn(ip, args)
}
