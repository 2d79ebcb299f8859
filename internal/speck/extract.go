// SPDX-License-Identifier: AGPL-3.0-or-later
package speck

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoBlock is returned when a source has no speck comment.
var ErrNoBlock = errors.New("no speck block")

var blockStart = regexp.MustCompile(`/\*\s*speck\b`)

// Block returns the body of the first /* speck ... */ comment in src.
func Block(src string) (string, error) {
	loc := blockStart.FindStringIndex(src)
	if loc == nil {
		return "", ErrNoBlock
	}
	rest := src[loc[1]:]
	end := strings.Index(rest, "*/")
	if end < 0 {
		return "", fmt.Errorf("unterminated speck block")
	}
	return rest[:end], nil
}

// Parse decodes a speck comment body.
func Parse(body string) (Doc, error) {
	var doc Doc
	text := toYAML(body)
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return Doc{}, fmt.Errorf("decoding speck block: %w", err)
	}
	return doc, nil
}

// Extract returns the Doc declared in src. Sources without a speck block
// yield ErrNoBlock.
func Extract(src string) (Doc, error) {
	body, err := Block(src)
	if err != nil {
		return Doc{}, err
	}
	return Parse(body)
}

// ExtractFile reads path and extracts its Doc.
func ExtractFile(path string) (Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Extract(string(data))
	if err != nil && !errors.Is(err, ErrNoBlock) {
		return Doc{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, err
}

// toYAML normalizes a comment body: JSDoc gutters are removed, the block is
// dedented and ''' fences become YAML literal blocks.
func toYAML(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	lines = stripGutter(lines)
	lines = dedent(lines)
	return strings.Join(unfence(lines), "\n")
}

var gutter = regexp.MustCompile(`^\s*\* ?`)

func stripGutter(lines []string) []string {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" && !gutter.MatchString(l) {
			return lines
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = gutter.ReplaceAllString(l, "")
	}
	return out
}

func indentOf(l string) int {
	return len(l) - len(strings.TrimLeft(l, " \t"))
}

func minIndent(lines []string) int {
	min := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := indentOf(l); min < 0 || n < min {
			min = n
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

func dedent(lines []string) []string {
	n := minIndent(lines)
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= n {
			out[i] = l[n:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

const fence = "'''"

// unfence rewrites
//
//	'jsx': '''
//	   <X />
//	'''
//
// into a YAML literal block indented under its key.
func unfence(lines []string) []string {
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimRight(line, " \t")
		if !strings.HasSuffix(trimmed, fence) || strings.TrimSpace(trimmed) == fence {
			out = append(out, line)
			continue
		}

		keyIndent := indentOf(line)
		out = append(out, strings.TrimSuffix(trimmed, fence)+"|")

		var block []string
		for i++; i < len(lines) && strings.TrimSpace(lines[i]) != fence; i++ {
			block = append(block, lines[i])
		}
		pad := strings.Repeat(" ", keyIndent+2)
		for _, b := range dedent(block) {
			if strings.TrimSpace(b) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, pad+b)
		}
	}
	return out
}
