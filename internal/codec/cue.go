package codec

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// CUE writes values as formatted CUE. Structs become top-level field
// declarations; any other value is written as a single embedded expression.
//
// A fresh cue.Context is used per call; contexts are not safe for
// concurrent use and parallel tests share the codec.
type CUE struct{}

// Name returns "cue".
func (CUE) Name() string { return "cue" }

// Extension returns "cue".
func (CUE) Extension() string { return "cue" }

// Encode converts v to a concrete CUE value and formats it.
func (CUE) Encode(v any) ([]byte, error) {
	val := cuecontext.New().Encode(v)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("encode cue: %w", err)
	}

	node := val.Syntax(cue.Final(), cue.Concrete(true))
	switch n := node.(type) {
	case *ast.StructLit:
		node = &ast.File{Decls: n.Elts}
	case ast.Expr:
		node = &ast.File{Decls: []ast.Decl{&ast.EmbedDecl{Expr: n}}}
	}

	out, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("format cue: %w", err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// Decode compiles data as CUE and decodes the resulting value into v. The
// value must be concrete.
func (CUE) Decode(data []byte, v any) error {
	val := cuecontext.New().CompileBytes(data, cue.Filename("expected.cue"))
	if err := val.Err(); err != nil {
		return fmt.Errorf("compile cue: %w", err)
	}
	return val.Decode(v)
}
