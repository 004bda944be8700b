// Package ast defines the template syntax tree produced by the parser and
// consumed by the compiler. Nodes are immutable once built and every node
// carries the source position it originated from.
package ast

// Position represents a location in the template source.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Node is the interface for all template AST nodes.
type Node interface {
	Pos() Position
	node() // marker method to restrict implementation
}

// Statement is a node that can appear in a program body.
type Statement interface {
	Node
	stmt()
}

// Expression is a node that evaluates to a value.
type Expression interface {
	Node
	expr()
}

// Base provides common Position handling for all nodes.
type Base struct {
	Position Position
}

// Pos returns the node's source position.
func (b Base) Pos() Position { return b.Position }

func (Base) node() {}

// Program is an ordered sequence of statements, used both for the top-level
// template body and for block bodies.
type Program struct {
	Base
	Body []Statement
}

// ContentStatement is literal template text, emitted unchanged.
type ContentStatement struct {
	Base
	Value string
}

// CommentStatement is a {{! ... }} annotation. It never affects output.
type CommentStatement struct {
	Base
	Value string
}

// MustacheStatement is a {{ ... }} or {{{ ... }}} interpolation.
// Params is non-empty when the mustache is a helper call.
type MustacheStatement struct {
	Base
	Path    Expression
	Params  []Expression
	Escaped bool
}

// BlockStatement is a {{#helper expr}} ... {{/helper}} construct.
// Inverse holds the {{else}} branch and is nil when absent.
type BlockStatement struct {
	Base
	Helper  string
	Expr    Expression
	Program *Program
	Inverse *Program
}

// PathPart is one segment of a path. Either Name is a literal property name,
// or Sub is a computed expression evaluated as the subscript.
type PathPart struct {
	Name string
	Sub  Expression
}

// PathExpression is a reference like user.name, this.id or @key.
// Data is true for @-prefixed references.
type PathExpression struct {
	Base
	Data  bool
	Parts []PathPart
}

// StringLiteral is a quoted string.
type StringLiteral struct {
	Base
	Value string
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Base
	Value bool
}

// NumberLiteral is a numeric literal. Text preserves the source spelling.
type NumberLiteral struct {
	Base
	Value float64
	Text  string
}

// NullLiteral is the null literal.
type NullLiteral struct {
	Base
}

// UndefinedLiteral is the undefined literal.
type UndefinedLiteral struct {
	Base
}

// SubExpression is a parenthesized helper call used as an argument,
// e.g. {{fn (inner a) b}}.
type SubExpression struct {
	Base
	Path   *PathExpression
	Params []Expression
}

func (*ContentStatement) stmt()  {}
func (*CommentStatement) stmt()  {}
func (*MustacheStatement) stmt() {}
func (*BlockStatement) stmt()    {}

func (*PathExpression) expr()   {}
func (*StringLiteral) expr()    {}
func (*BooleanLiteral) expr()   {}
func (*NumberLiteral) expr()    {}
func (*NullLiteral) expr()      {}
func (*UndefinedLiteral) expr() {}
func (*SubExpression) expr()    {}
