// Package testrom loads SM83 single-step test vectors and runs them
// against the cpu package, comparing full post-state (registers and the
// RAM bytes the vector's author chose to track) byte for byte.
//
// The vector format mirrors the community SingleStepTests/sm83 JSON
// schema: one array per opcode, each entry an {initial, final} pair of
// register/RAM snapshots. The corpus embedded here is a small
// hand-authored subset, not the full generated set.
package testrom

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed testdata/*.json
var vectorFS embed.FS

// RAMEntry is an (address, value) pair from a vector's "ram" list.
type RAMEntry [2]int

// State is one side (initial or final) of a test vector.
type State struct {
	PC  uint16     `json:"pc"`
	SP  uint16     `json:"sp"`
	A   uint8      `json:"a"`
	B   uint8      `json:"b"`
	C   uint8      `json:"c"`
	D   uint8      `json:"d"`
	E   uint8      `json:"e"`
	F   uint8      `json:"f"`
	H   uint8      `json:"h"`
	L   uint8      `json:"l"`
	IME uint8      `json:"ime"`
	RAM []RAMEntry `json:"ram"`
}

// Vector is one single-step test case: a pre-state, the expected
// post-state after executing the opcode at Initial.PC once.
type Vector struct {
	Name    string `json:"name"`
	Initial State  `json:"initial"`
	Final   State  `json:"final"`
}

// Load parses the embedded vector file named name (e.g. "3c.json").
func Load(name string) ([]Vector, error) {
	data, err := vectorFS.ReadFile("testdata/" + name)
	if err != nil {
		return nil, fmt.Errorf("testrom: %w", err)
	}
	var vectors []Vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("testrom: %s: %w", name, err)
	}
	return vectors, nil
}

// LoadAll parses every embedded vector file, sorted by file name.
func LoadAll() ([]Vector, error) {
	entries, err := vectorFS.ReadDir("testdata")
	if err != nil {
		return nil, fmt.Errorf("testrom: %w", err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)

	var all []Vector
	for _, name := range names {
		vectors, err := Load(name)
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}
