package parser

import (
	"fmt"

	"github.com/eslym/tinybars/pkg/ast"
)

// ParseError represents malformed template syntax with position information.
type ParseError struct {
	Pos     ast.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// errorf creates a ParseError at the given position.
func errorf(pos ast.Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
