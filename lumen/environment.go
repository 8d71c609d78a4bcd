package lumen

import "fmt"

// Env is a mutable binding table with a link to its enclosing frame. Frames
// form a tree at runtime: one per block, per call, and per method bind.
// Closures keep a reference to their defining frame, so a frame can outlive
// its lexical creation point; Go's garbage collector handles the shared
// ownership.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Nil, fmt.Errorf("undefined variable '%s'", name)
}

// Set updates the nearest existing binding of name to v. If no binding
// exists in any visible frame, Set returns an error (it does not implicitly
// define).
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// ancestor walks up exactly dist parent links. The resolver guarantees the
// frame exists, so a short chain here is an internal bug worth crashing on.
func (e *Env) ancestor(dist int) *Env {
	env := e
	for i := 0; i < dist; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame exactly dist hops up the chain. Used for
// resolved references; no searching happens here.
func (e *Env) GetAt(dist int, name string) Value {
	return e.ancestor(dist).table[name]
}

// SetAt writes name in the frame exactly dist hops up the chain.
func (e *Env) SetAt(dist int, name string, v Value) {
	e.ancestor(dist).table[name] = v
}
