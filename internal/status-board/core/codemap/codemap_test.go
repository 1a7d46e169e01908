package codemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Resolve(t *testing.T) {
	m := Default()

	tests := []struct {
		code string
		want Action
	}{
		{"0", Action{Kind: KindOffline}},
		{"9", Action{Kind: KindBusy}},
		{"10", Action{Kind: KindAvailable, Location: "Main Gate"}},
		{"11", Action{Kind: KindAvailable, Location: "Hall 1"}},
		{"12", Action{Kind: KindAvailable, Location: "Hall 5"}},
		{"13", Action{Kind: KindAvailable, Location: "Health Centre"}},
		{"14", Action{Kind: KindAvailable, Location: "Library"}},
		{"15", Action{Kind: KindAvailable, Location: "Airstrip"}},
		{"  14\n", Action{Kind: KindAvailable, Location: "Library"}},
		{" 0 ", Action{Kind: KindOffline}},
		{"??", Action{Kind: KindInvalid}},
		{"", Action{Kind: KindInvalid}},
		{"   ", Action{Kind: KindInvalid}},
		{"16", Action{Kind: KindInvalid}},
		{"014", Action{Kind: KindInvalid}},
		{"1 4", Action{Kind: KindInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Resolve(tt.code))
		})
	}
}

func TestResolve_CaseSensitive(t *testing.T) {
	m, err := New(Table{
		Offline:   "off",
		Busy:      "busy",
		Locations: []Entry{{Code: "lib", Name: "Library"}},
	})
	require.NoError(t, err)

	assert.Equal(t, KindOffline, m.Resolve("off").Kind)
	assert.Equal(t, KindInvalid, m.Resolve("OFF").Kind)
	assert.Equal(t, KindInvalid, m.Resolve("Lib").Kind)
	assert.Equal(t, "Library", m.Resolve("lib").Location)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		table Table
	}{
		{"missing offline", Table{Busy: "9"}},
		{"missing busy", Table{Offline: "0"}},
		{"same status codes", Table{Offline: "0", Busy: "0"}},
		{"empty location code", Table{Offline: "0", Busy: "9", Locations: []Entry{{Code: " ", Name: "Gate"}}}},
		{"empty location name", Table{Offline: "0", Busy: "9", Locations: []Entry{{Code: "10"}}}},
		{"collides with offline", Table{Offline: "0", Busy: "9", Locations: []Entry{{Code: "0", Name: "Gate"}}}},
		{"duplicate code", Table{Offline: "0", Busy: "9", Locations: []Entry{{Code: "10", Name: "A"}, {Code: "10", Name: "B"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table)
			assert.Error(t, err)
		})
	}
}

func TestIsLocation(t *testing.T) {
	m := Default()
	assert.True(t, m.IsLocation("Library"))
	assert.False(t, m.IsLocation("library"))
	assert.False(t, m.IsLocation(""))
}

func TestEntries_Ordered(t *testing.T) {
	entries := Default().Entries()
	require.Len(t, entries, 8)

	assert.Equal(t, Entry{Code: "0", Action: "OFFLINE"}, entries[0])
	assert.Equal(t, Entry{Code: "9", Action: "BUSY"}, entries[1])
	assert.Equal(t, Entry{Code: "10", Action: "AVAILABLE", Name: "Main Gate"}, entries[2])
	assert.Equal(t, Entry{Code: "15", Action: "AVAILABLE", Name: "Airstrip"}, entries[7])
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.yaml")
	body := `offline: "0"
busy: "9"
locations:
  - code: "20"
    name: "Computer Centre"
  - code: "21"
    name: "Hall 12"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m, err := LoadYAML(path)
	require.NoError(t, err)

	assert.Equal(t, Action{Kind: KindAvailable, Location: "Computer Centre"}, m.Resolve("20"))
	assert.Equal(t, KindInvalid, m.Resolve("14").Kind)
}

func TestLoadYAML_Missing(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
