package compiler

import "github.com/eslym/tinybars/pkg/ast"

// compileProgram joins a program's statements into one string-building
// expression: the empty-string literal followed by each fragment with the
// concatenation operator, in source order. An empty program compiles to
// just the empty-string literal.
func compileProgram(p *ast.Program, ctx context) (*Fragment, error) {
	frag := newFragment()
	if p.Pos().IsValid() {
		frag.mapped(`""`, p.Pos())
	} else {
		frag.raw(`""`)
	}

	for _, stmt := range p.Body {
		sf, err := compileStatement(stmt, ctx)
		if err != nil {
			return nil, err
		}
		if sf.empty() {
			// Stripped comment.
			continue
		}
		frag.raw(" + ").add(sf)
	}

	return frag, nil
}
