// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speck extracts the structured documentation block from a source file.
package speck

// Doc is the parsed documentation of one source file.
// Interactions holds whatever the comment declared; elements that are not
// strings are rejected later by the normalizer.
type Doc struct {
	Name         string `yaml:"name" json:"name,omitempty"`
	Type         string `yaml:"type" json:"type,omitempty"`
	Description  string `yaml:"description" json:"description,omitempty"`
	Interactions []any  `yaml:"interactions" json:"interactions,omitempty"`
}

// Empty reports whether the doc carries neither a name nor interactions.
func (d Doc) Empty() bool {
	return d.Name == "" && len(d.Interactions) == 0
}
