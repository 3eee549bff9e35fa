// Package diff renders line-oriented unified diffs of dataset documents.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// ContextLines is the number of unchanged lines shown around each change.
	ContextLines    = 3
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

type op struct {
	kind  byte
	text  string
	oldNo int
	newNo int
}

// Unified returns a unified diff turning before into after, or "" when both
// are identical. Output longer than 10,000 lines is truncated with a marker.
func Unified(before, after []byte, beforeLabel, afterLabel string) string {
	if bytes.Equal(before, after) {
		return ""
	}

	ops := lineOps(string(before), string(after))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", beforeLabel)
	fmt.Fprintf(&buf, "+++ %s\n", afterLabel)

	i := 0
	for i < len(ops) {
		if ops[i].kind == ' ' {
			i++
			continue
		}
		start := max(0, i-ContextLines)
		end := i
		for j := i; j < len(ops); j++ {
			if ops[j].kind != ' ' {
				end = j
			} else if j-end > 2*ContextLines {
				break
			}
		}
		stop := min(len(ops), end+ContextLines+1)
		writeHunk(&buf, ops[start:stop])
		i = stop
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return result
}

// Stat counts added and removed lines between before and after.
func Stat(before, after []byte) (added, removed int) {
	for _, o := range lineOps(string(before), string(after)) {
		switch o.kind {
		case '+':
			added++
		case '-':
			removed++
		}
	}
	return added, removed
}

func lineOps(before, after string) []op {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []op
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			o := op{text: text, oldNo: oldLine, newNo: newLine}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				o.kind = ' '
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				o.kind = '-'
				oldLine++
			case diffmatchpatch.DiffInsert:
				o.kind = '+'
				newLine++
			}
			ops = append(ops, o)
		}
	}
	return ops
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

func writeHunk(buf *bytes.Buffer, ops []op) {
	oldCount, newCount := 0, 0
	for _, o := range ops {
		if o.kind != '+' {
			oldCount++
		}
		if o.kind != '-' {
			newCount++
		}
	}
	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@\n", ops[0].oldNo, oldCount, ops[0].newNo, newCount)
	for _, o := range ops {
		buf.WriteByte(o.kind)
		buf.WriteString(o.text)
		buf.WriteByte('\n')
	}
}
