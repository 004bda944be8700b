package compiler

import (
	"strings"

	"github.com/eslym/tinybars/pkg/ast"
)

// compileStatement translates a single statement node into a string-valued
// expression fragment.
func compileStatement(node ast.Statement, ctx context) (*Fragment, error) {
	switch n := node.(type) {
	case *ast.ContentStatement:
		// Literal text is never re-escaped; escaping is a mustache-only
		// concern.
		return newFragment().mapped(quoteJS(n.Value), n.Pos()), nil

	case *ast.CommentStatement:
		if ctx.strip {
			return newFragment(), nil
		}
		text := strings.ReplaceAll(n.Value, "*/", "*\\/")
		return newFragment().mapped(`""`, n.Pos()).raw(" /* " + text + " */"), nil

	case *ast.MustacheStatement:
		return compileMustache(n, ctx)

	case *ast.BlockStatement:
		return compileBlock(n, ctx)

	default:
		return nil, compileErrorf(node.Pos(), kindName(node), "unsupported statement kind %s", kindName(node))
	}
}

// compileMustache emits the interpolated expression, wrapped in the runtime
// escape helper when the mustache is escaped. Unescaped mustaches emit the
// value as-is: some call sites disable escaping deliberately to interpolate
// raw markup.
func compileMustache(n *ast.MustacheStatement, ctx context) (*Fragment, error) {
	var expr *Fragment
	var err error
	if len(n.Params) > 0 {
		path, ok := n.Path.(*ast.PathExpression)
		if !ok {
			return nil, compileErrorf(n.Path.Pos(), kindName(n.Path), "helper name must be a path")
		}
		expr, err = compileCall(path, n.Params, ctx)
	} else {
		expr, err = compileExpression(n.Path, ctx)
	}
	if err != nil {
		return nil, err
	}

	frag := newFragment()
	if n.Escaped {
		// The escape helper takes a string, so coerce before the call.
		ctx.imports.add(escapeSymbol, escapeAlias)
		frag.mapped(escapeAlias, n.Pos()).raw(`("" + (`).add(expr).raw("))")
	} else {
		frag.mapped("(", n.Pos()).add(expr).raw(")")
	}
	return frag, nil
}

func compileBlock(n *ast.BlockStatement, ctx context) (*Fragment, error) {
	switch n.Helper {
	case "if":
		return compileConditional(n, ctx, false)
	case "unless":
		return compileConditional(n, ctx, true)
	case "each":
		return compileEach(n, ctx)
	case "with":
		return compileWith(n, ctx)
	default:
		return nil, compileErrorf(n.Pos(), n.Helper, "unknown block helper %q", n.Helper)
	}
}

// compileConditional emits a ternary over the once-compiled condition.
// Truthiness is left to the host runtime executing the generated code.
// For unless the branches are swapped.
func compileConditional(n *ast.BlockStatement, ctx context, invert bool) (*Fragment, error) {
	cond, err := compileExpression(n.Expr, ctx)
	if err != nil {
		return nil, err
	}

	primary, err := compileProgram(n.Program, ctx)
	if err != nil {
		return nil, err
	}

	alternate := newFragment().raw(`""`)
	if n.Inverse != nil {
		alternate, err = compileProgram(n.Inverse, ctx)
		if err != nil {
			return nil, err
		}
	}

	if invert {
		primary, alternate = alternate, primary
	}

	frag := newFragment().mapped("(", n.Pos())
	frag.add(cond).raw(" ? (").add(primary).raw(") : (").add(alternate).raw("))")
	return frag, nil
}

// compileEach enumerates the source's own properties as ordered (key, value)
// pairs, binds depth-indexed key and value names, and joins the per-pair
// results with no separator. The body compiles with depth+1; the increment
// does not leak to sibling statements.
func compileEach(n *ast.BlockStatement, ctx context) (*Fragment, error) {
	if n.Inverse != nil {
		return nil, compileErrorf(n.Inverse.Pos(), n.Helper, "%q block does not take {{else}}", n.Helper)
	}

	src, err := compileExpression(n.Expr, ctx)
	if err != nil {
		return nil, err
	}

	k, v := keyVar(ctx.depth), valueVar(ctx.depth)
	body, err := compileProgram(n.Program, ctx.descend(v))
	if err != nil {
		return nil, err
	}

	frag := newFragment().mapped("Object.entries(", n.Pos())
	frag.add(src).rawf(").map(([%s, %s]) => (", k, v).add(body).raw(`)).join("")`)
	return frag, nil
}

// compileWith rebinds the scope to the source value via an immediately
// invoked single-parameter function. Depth is unchanged.
func compileWith(n *ast.BlockStatement, ctx context) (*Fragment, error) {
	if n.Inverse != nil {
		return nil, compileErrorf(n.Inverse.Pos(), n.Helper, "%q block does not take {{else}}", n.Helper)
	}

	src, err := compileExpression(n.Expr, ctx)
	if err != nil {
		return nil, err
	}

	w := withVar(ctx.depth)
	body, err := compileProgram(n.Program, ctx.withScope(w))
	if err != nil {
		return nil, err
	}

	frag := newFragment().mapped("((", n.Pos())
	frag.rawf("%s) => (", w).add(body).raw("))(").add(src).raw(")")
	return frag, nil
}
