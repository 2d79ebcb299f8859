// SPDX-License-Identifier: AGPL-3.0-or-later

// Package interactions turns free-text interaction descriptions into test titles.
package interactions

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInteractionType is matched by errors.Is for any non-string interaction.
var ErrInvalidInteractionType = errors.New("expecting interaction to be a string")

// InvalidInteractionTypeError reports the first interaction that is not text.
type InvalidInteractionTypeError struct {
	Index int
	Value any
}

func (e *InvalidInteractionTypeError) Error() string {
	return fmt.Sprintf("interaction %d: %v, got %T", e.Index, ErrInvalidInteractionType, e.Value)
}

// Is lets errors.Is match ErrInvalidInteractionType.
func (e *InvalidInteractionTypeError) Is(target error) bool {
	return target == ErrInvalidInteractionType
}

var canToken = regexp.MustCompile(`(?i)can`)

// Title trims s and replaces the first case-insensitive "can" with "should".
// The match is a plain substring match, so "scanner" becomes "sshouldner".
func Title(s string) string {
	s = strings.TrimSpace(s)
	if loc := canToken.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + "should" + s[loc[1]:]
	}
	return strings.TrimSpace(s)
}

// NormalizeAll converts every interaction in order. The first non-string
// element aborts the batch.
func NormalizeAll(values []any) ([]string, error) {
	titles := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, &InvalidInteractionTypeError{Index: i, Value: v}
		}
		titles = append(titles, Title(s))
	}
	return titles, nil
}

// FromStrings is NormalizeAll for callers that already hold text.
func FromStrings(values []string) []string {
	titles := make([]string, len(values))
	for i, s := range values {
		titles[i] = Title(s)
	}
	return titles
}
