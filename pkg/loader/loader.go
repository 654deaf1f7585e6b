// Package loader splits raw multi-document YAML input into Documents
// with absolute source positions. A syntax error in one document yields
// a placeholder Document and parsing continues at the next separator.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rzbill/sigil/pkg/types"
	yaml "gopkg.in/yaml.v3"
)

// chunk is one separator-delimited slice of the input.
type chunk struct {
	data      []byte
	startLine int // 1-based line of the chunk's first line in the input
}

// Parse splits data on standard "---" separators and parses each chunk.
// It never fails as a whole: malformed chunks become placeholder
// documents carrying a ParseError. Empty chunks are skipped.
func Parse(data []byte, source string) []*types.Document {
	var docs []*types.Document
	for _, c := range split(data) {
		if isBlank(c.data) {
			continue
		}
		doc := parseChunk(c, source)
		if doc == nil {
			continue
		}
		doc.Index = len(docs)
		docs = append(docs, doc)
	}
	return docs
}

// ParseReader reads all of r and parses it. Only the read itself can
// fail; parse problems are reported through placeholder documents.
func ParseReader(r io.Reader, source string) ([]*types.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return Parse(data, source), nil
}

// ParseFile reads and parses one file.
func ParseFile(path string) ([]*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path), nil
}

// split cuts data at "---" separator lines. The marker itself belongs
// to neither chunk, but content sharing its line ("--- {kind: ...}")
// starts the next chunk on that same line.
func split(data []byte) []chunk {
	lines := bytes.Split(data, []byte("\n"))
	var chunks []chunk
	cur := chunk{startLine: 1}
	var buf bytes.Buffer
	flush := func(next int) {
		cur.data = append([]byte(nil), buf.Bytes()...)
		chunks = append(chunks, cur)
		buf.Reset()
		cur = chunk{startLine: next}
	}
	for i, line := range lines {
		rest, sep := splitSeparator(line)
		if !sep {
			buf.Write(line)
			buf.WriteByte('\n')
			continue
		}
		flush(i + 2)
		if rest != nil {
			cur.startLine = i + 1
			buf.Write(rest)
			buf.WriteByte('\n')
		}
	}
	flush(len(lines) + 1)
	return chunks
}

// splitSeparator reports whether line is a document separator. When the
// separator carries inline document content, that content comes back
// with the marker blanked out so source columns stay accurate.
func splitSeparator(line []byte) ([]byte, bool) {
	trimmed := strings.TrimRight(string(line), " \t\r")
	if trimmed == "---" {
		return nil, true
	}
	if !strings.HasPrefix(trimmed, "--- ") && !strings.HasPrefix(trimmed, "---\t") && !strings.HasPrefix(trimmed, "---#") {
		return nil, false
	}
	rest := trimmed[3:]
	if t := strings.TrimSpace(rest); t == "" || strings.HasPrefix(t, "#") {
		// "--- # comment" is still a pure separator
		return nil, true
	}
	return append([]byte("   "), rest...), true
}

func isBlank(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		t := strings.TrimSpace(string(line))
		if t != "" && !strings.HasPrefix(t, "#") {
			return false
		}
	}
	return true
}

func parseChunk(c chunk, source string) *types.Document {
	var node yaml.Node
	if err := yaml.Unmarshal(c.data, &node); err != nil {
		return placeholder(c, source, err)
	}
	root := types.Unwrap(&node)
	if root == nil || root.Kind == 0 {
		// Chunk held only directives or anchors that resolved to nothing.
		return nil
	}
	shiftLines(root, c.startLine-1)
	return &types.Document{
		Source: source,
		Root:   root,
		Pos:    types.NodePos(root),
	}
}

// placeholder wraps a syntax error into an error document anchored at
// the best-known position.
func placeholder(c chunk, source string, err error) *types.Document {
	line, ok := extractLine(err.Error())
	if ok {
		line += c.startLine - 1
	} else {
		line = c.startLine
	}
	pos := types.Position{Line: line, Column: 1}
	return &types.Document{
		Source: source,
		Pos:    pos,
		Err: &types.ParseError{
			Source:  source,
			Pos:     pos,
			Message: strings.TrimPrefix(err.Error(), "yaml: "),
		},
	}
}

var lineRe = regexp.MustCompile(`line (\d+)`)

// extractLine pulls the chunk-relative line number out of a yaml error
// message when one is present.
func extractLine(msg string) (int, bool) {
	m := lineRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// shiftLines rebases chunk-relative node lines onto the whole input.
func shiftLines(n *yaml.Node, delta int) {
	if n == nil || delta == 0 {
		return
	}
	if n.Line > 0 {
		n.Line += delta
	}
	for _, c := range n.Content {
		shiftLines(c, delta)
	}
}
