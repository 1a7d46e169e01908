// Package codemap holds the table that turns a driver's short code into a
// status action. A Map is immutable once built and is handed to the status
// engine at construction time.
package codemap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindOffline
	KindBusy
	KindAvailable
)

func (k Kind) String() string {
	switch k {
	case KindOffline:
		return "OFFLINE"
	case KindBusy:
		return "BUSY"
	case KindAvailable:
		return "AVAILABLE"
	default:
		return "INVALID"
	}
}

// Action is the result of resolving a code. Location is set only for KindAvailable.
type Action struct {
	Kind     Kind
	Location string
}

type Entry struct {
	Code   string `json:"code" yaml:"code"`
	Action string `json:"action" yaml:"-"`
	Name   string `json:"name,omitempty" yaml:"name"`
}

type Map struct {
	offline   string
	busy      string
	locations map[string]string
	names     map[string]struct{}
}

// Table is the serialized form of a Map.
type Table struct {
	Offline   string  `yaml:"offline"`
	Busy      string  `yaml:"busy"`
	Locations []Entry `yaml:"locations"`
}

// New validates t and builds the Map. Codes and names are trimmed.
func New(t Table) (*Map, error) {
	m := &Map{
		offline:   strings.TrimSpace(t.Offline),
		busy:      strings.TrimSpace(t.Busy),
		locations: make(map[string]string, len(t.Locations)),
		names:     make(map[string]struct{}, len(t.Locations)),
	}

	if m.offline == "" || m.busy == "" {
		return nil, fmt.Errorf("offline and busy codes are required")
	}
	if m.offline == m.busy {
		return nil, fmt.Errorf("offline and busy share code %q", m.offline)
	}

	for _, e := range t.Locations {
		code := strings.TrimSpace(e.Code)
		name := strings.TrimSpace(e.Name)
		switch {
		case code == "":
			return nil, fmt.Errorf("location %q has an empty code", name)
		case name == "":
			return nil, fmt.Errorf("code %q has an empty location name", code)
		case code == m.offline || code == m.busy:
			return nil, fmt.Errorf("location code %q collides with a status code", code)
		}
		if _, dup := m.locations[code]; dup {
			return nil, fmt.Errorf("duplicate location code %q", code)
		}
		m.locations[code] = name
		m.names[name] = struct{}{}
	}

	return m, nil
}

// Default is the campus table drivers learned from the printed cheat sheet.
func Default() *Map {
	m, err := New(Table{
		Offline: "0",
		Busy:    "9",
		Locations: []Entry{
			{Code: "10", Name: "Main Gate"},
			{Code: "11", Name: "Hall 1"},
			{Code: "12", Name: "Hall 5"},
			{Code: "13", Name: "Health Centre"},
			{Code: "14", Name: "Library"},
			{Code: "15", Name: "Airstrip"},
		},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// LoadYAML reads a Table from path.
func LoadYAML(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read code map: %w", err)
	}
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse code map %s: %w", path, err)
	}
	return New(table)
}

// Resolve trims code and looks it up. Matching is exact and case-sensitive.
func (m *Map) Resolve(code string) Action {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return Action{Kind: KindInvalid}
	case code == m.offline:
		return Action{Kind: KindOffline}
	case code == m.busy:
		return Action{Kind: KindBusy}
	}
	if name, ok := m.locations[code]; ok {
		return Action{Kind: KindAvailable, Location: name}
	}
	return Action{Kind: KindInvalid}
}

// IsLocation reports whether name is one of the table's location names.
func (m *Map) IsLocation(name string) bool {
	_, ok := m.names[name]
	return ok
}

// Entries lists every code, status codes first, locations in code order.
func (m *Map) Entries() []Entry {
	out := []Entry{
		{Code: m.offline, Action: KindOffline.String()},
		{Code: m.busy, Action: KindBusy.String()},
	}
	codes := make([]string, 0, len(m.locations))
	for code := range m.locations {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) < len(codes[j])
		}
		return codes[i] < codes[j]
	})
	for _, code := range codes {
		out = append(out, Entry{Code: code, Action: KindAvailable.String(), Name: m.locations[code]})
	}
	return out
}
