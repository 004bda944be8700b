// Package sourcemap builds Source Map v3 payloads for generated code.
// Only a single source file per map is supported, which is all the
// template compiler needs.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Map is a Source Map v3 payload.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// JSON serializes the map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// InlineComment renders the map as a //# sourceMappingURL data-URI comment
// suitable for appending to the generated code.
func (m *Map) InlineComment() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return "//# sourceMappingURL=data:application/json;base64," + encoded, nil
}

// mapping links a generated position to an original position.
// All coordinates are 0-based.
type mapping struct {
	genLine, genCol int
	srcLine, srcCol int
}

// Builder accumulates mappings in generated-code order.
type Builder struct {
	mappings []mapping
}

// Add records that generated position (genLine, genCol) originates from
// source position (srcLine, srcCol). Coordinates are 0-based and must be
// added in generated-code order.
func (b *Builder) Add(genLine, genCol, srcLine, srcCol int) {
	b.mappings = append(b.mappings, mapping{genLine, genCol, srcLine, srcCol})
}

// Build produces the final map. The source file is named sourceName and its
// full text is embedded as sourcesContent.
func (b *Builder) Build(file, sourceName, sourceContent string) *Map {
	return &Map{
		Version:        3,
		File:           file,
		Sources:        []string{sourceName},
		SourcesContent: []string{sourceContent},
		Names:          []string{},
		Mappings:       b.encodeMappings(),
	}
}

// encodeMappings renders the accumulated mappings as base64-VLQ segments,
// one group per generated line.
func (b *Builder) encodeMappings() string {
	var sb strings.Builder

	prevGenLine := 0
	prevGenCol := 0
	prevSrcLine := 0
	prevSrcCol := 0
	firstOnLine := true

	for _, m := range b.mappings {
		for prevGenLine < m.genLine {
			sb.WriteByte(';')
			prevGenLine++
			prevGenCol = 0
			firstOnLine = true
		}
		if !firstOnLine {
			sb.WriteByte(',')
		}
		firstOnLine = false

		encodeVLQ(&sb, m.genCol-prevGenCol)
		prevGenCol = m.genCol

		// Source index: always 0, there is a single source.
		encodeVLQ(&sb, 0)

		encodeVLQ(&sb, m.srcLine-prevSrcLine)
		prevSrcLine = m.srcLine

		encodeVLQ(&sb, m.srcCol-prevSrcCol)
		prevSrcCol = m.srcCol
	}

	return sb.String()
}
