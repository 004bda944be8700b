package compiler

import (
	"fmt"
	"strings"

	"github.com/eslym/tinybars/pkg/ast"
)

// CompileError reports a structurally valid AST construct the compiler does
// not support: an unknown block helper, an unknown node kind, or an
// iteration-relative reference outside any each block. Construct names the
// offending helper or node kind.
type CompileError struct {
	Pos       ast.Position
	Construct string
	Message   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func compileErrorf(pos ast.Position, construct, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Construct: construct, Message: fmt.Sprintf(format, args...)}
}

// kindName reports an AST node's type name for error messages.
func kindName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
