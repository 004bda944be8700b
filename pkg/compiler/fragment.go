package compiler

import (
	"fmt"
	"strings"

	"github.com/eslym/tinybars/pkg/ast"
)

// Fragment is a piece of generated code assembled from chunks, each chunk
// optionally annotated with the template position it originated from. The
// annotations become source-map entries when the output is rendered.
type Fragment struct {
	chunks []chunk
}

type chunk struct {
	text string
	pos  ast.Position // zero (invalid) when unmapped
}

func newFragment() *Fragment { return &Fragment{} }

// raw appends unmapped text.
func (f *Fragment) raw(text string) *Fragment {
	f.chunks = append(f.chunks, chunk{text: text})
	return f
}

func (f *Fragment) rawf(format string, args ...any) *Fragment {
	return f.raw(fmt.Sprintf(format, args...))
}

// mapped appends text that originates from the given template position.
func (f *Fragment) mapped(text string, pos ast.Position) *Fragment {
	f.chunks = append(f.chunks, chunk{text: text, pos: pos})
	return f
}

// add appends another fragment's chunks, preserving their mappings.
func (f *Fragment) add(other *Fragment) *Fragment {
	f.chunks = append(f.chunks, other.chunks...)
	return f
}

func (f *Fragment) empty() bool { return len(f.chunks) == 0 }

// String returns the generated text without mapping information.
func (f *Fragment) String() string {
	var sb strings.Builder
	for _, c := range f.chunks {
		sb.WriteString(c.text)
	}
	return sb.String()
}
