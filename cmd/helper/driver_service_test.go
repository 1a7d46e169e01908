package main

import (
	"math/rand"
	"testing"

	"iitk-connect/internal/status-board/core/codemap"

	"github.com/stretchr/testify/assert"
)

func TestShiftCodes(t *testing.T) {
	entries := codemap.Default().Entries()
	plan := ShiftCodes(entries, 3, rand.New(rand.NewSource(1)))

	assert.Len(t, plan, 7)
	assert.Equal(t, "0", plan[len(plan)-1])
	codes := codemap.Default()
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, codemap.KindAvailable, codes.Resolve(plan[i]).Kind)
		assert.Equal(t, "9", plan[i+1])
	}

	assert.Equal(t, []string{"0"}, ShiftCodes(entries, 0, rand.New(rand.NewSource(1))))
}

func TestWsURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:5001", wsURL("http://localhost:5001"))
	assert.Equal(t, "wss://board.example", wsURL("https://board.example"))
}
