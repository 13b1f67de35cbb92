// Package script models the multi-speaker dialogue script that drives the
// podcast pipeline. A script is an ordered list of lines; the position of a
// line is its identity downstream (it becomes the ordinal prefix of the
// rendered segment filename).
package script

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Line is a single utterance in the dialogue.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Script is an ordered dialogue. Order is load-bearing: line index N renders
// to segment N regardless of which lines end up being synthesizable.
type Script struct {
	Dialogue []Line `json:"dialogue"`
}

// Empty reports whether the line has no usable speaker or text once trimmed.
// Empty lines are skipped by the synthesizer, they never fail a run.
func (l Line) Empty() bool {
	return strings.TrimSpace(l.Speaker) == "" || strings.TrimSpace(l.Text) == ""
}

// Trimmed returns the line with surrounding whitespace removed from both fields.
func (l Line) Trimmed() Line {
	return Line{
		Speaker: strings.TrimSpace(l.Speaker),
		Text:    strings.TrimSpace(l.Text),
	}
}

// Load reads a dialogue script from a JSON file. Both the object form
// {"dialogue": [...]} and a bare top-level array of lines are accepted.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes script JSON.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err == nil && s.Dialogue != nil {
		return &s, nil
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &Script{Dialogue: lines}, nil
}
