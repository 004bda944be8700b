package compiler

import (
	"strconv"

	"github.com/eslym/tinybars/pkg/ast"
)

// compileExpression translates a single expression node into a code
// fragment carrying the node's source position.
func compileExpression(node ast.Expression, ctx context) (*Fragment, error) {
	switch n := node.(type) {
	case *ast.PathExpression:
		return compilePath(n, ctx)

	case *ast.StringLiteral:
		return newFragment().mapped(quoteJS(n.Value), n.Pos()), nil

	case *ast.BooleanLiteral:
		text := "false"
		if n.Value {
			text = "true"
		}
		return newFragment().mapped(text, n.Pos()), nil

	case *ast.NumberLiteral:
		text := n.Text
		if text == "" {
			text = strconv.FormatFloat(n.Value, 'g', -1, 64)
		}
		return newFragment().mapped(text, n.Pos()), nil

	case *ast.NullLiteral:
		return newFragment().mapped("null", n.Pos()), nil

	case *ast.UndefinedLiteral:
		return newFragment().mapped("undefined", n.Pos()), nil

	case *ast.SubExpression:
		return compileCall(n.Path, n.Params, ctx)

	default:
		return nil, compileErrorf(node.Pos(), kindName(node), "unsupported expression kind %s", kindName(node))
	}
}

// compileCall emits callee(arg, ...) with arguments in source order. There
// is no implicit argument coercion.
func compileCall(path *ast.PathExpression, params []ast.Expression, ctx context) (*Fragment, error) {
	callee, err := compilePath(path, ctx)
	if err != nil {
		return nil, err
	}

	frag := newFragment().add(callee).raw("(")
	for i, param := range params {
		if i > 0 {
			frag.raw(", ")
		}
		arg, err := compileExpression(param, ctx)
		if err != nil {
			return nil, err
		}
		frag.add(arg)
	}
	frag.raw(")")

	return frag, nil
}

// compilePath resolves the path base against the current bindings and
// applies the remaining segments as subscripts.
//
// For @-references the first segment selects the base: @root is the stable
// root binding, @this the current scope, @key/@index the key of the nearest
// enclosing each, and anything else resolves against the data binding with
// all segments intact.
func compilePath(n *ast.PathExpression, ctx context) (*Fragment, error) {
	base := ctx.scope
	parts := n.Parts

	if n.Data {
		head := ""
		if len(parts) > 0 && parts[0].Sub == nil {
			head = parts[0].Name
		}
		switch head {
		case "root":
			base = rootVar
			parts = parts[1:]
		case "this":
			base = ctx.scope
			parts = parts[1:]
		case "key", "index":
			if ctx.depth == 0 {
				return nil, compileErrorf(n.Pos(), "@"+head, "@%s used outside of an each block", head)
			}
			base = keyVar(ctx.depth - 1)
			parts = parts[1:]
		default:
			base = ctx.data
		}
	}

	frag := newFragment().mapped(base, n.Pos())
	for _, part := range parts {
		if part.Sub != nil {
			sub, err := compileExpression(part.Sub, ctx)
			if err != nil {
				return nil, err
			}
			frag.raw("[").add(sub).raw("]")
		} else {
			frag.raw("[" + quoteJS(part.Name) + "]")
		}
	}

	return frag, nil
}
