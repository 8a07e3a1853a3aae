package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(`
commands:
  - match: R8
    reply: OPN-2006 v1.2
  - match: "[BCD"
    nak: true
  - match: ZZ
    silent: true
    delay: 50ms
scans:
  - data: "4006381333931"
    code_id: 0x01
  - data: "SKU-1"
    code_id: 0x0E
    quantity: -1
    after: 1s
    timestamp: true
repeat: true
`))
	require.NoError(t, err)

	require.Len(t, s.Commands, 3)
	assert.Equal(t, "OPN-2006 v1.2", s.Commands[0].Reply)
	assert.True(t, s.Commands[1].Nak)
	assert.Equal(t, 50*time.Millisecond, s.Commands[2].Delay)

	require.Len(t, s.Scans, 2)
	assert.Equal(t, uint8(0x01), s.Scans[0].CodeID)
	assert.Equal(t, int16(-1), s.Scans[1].Quantity)
	assert.Equal(t, time.Second, s.Scans[1].After)
	assert.True(t, s.Scans[1].Timestamp)
	assert.True(t, s.Repeat)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing match", "commands:\n  - reply: x\n"},
		{"nak and silent", "commands:\n  - match: A\n    nak: true\n    silent: true\n"},
		{"missing data", "scans:\n  - code_id: 1\n"},
		{"not yaml", "scans: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestScriptRuleLongestPrefix(t *testing.T) {
	s := &Script{Commands: []Rule{
		{Match: "R", Reply: "short"},
		{Match: "R8", Reply: "long"},
		{Match: "X", Nak: true},
	}}

	assert.Equal(t, "long", s.Rule("R805").Reply)
	assert.Equal(t, "short", s.Rule("RA").Reply)
	assert.True(t, s.Rule("X1").Nak)

	def := s.Rule("Z2")
	assert.Empty(t, def.Match)
	assert.False(t, def.Nak)
	assert.False(t, def.Silent)
}
