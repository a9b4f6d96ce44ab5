package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotContainsValue(t *testing.T) {
	snap := Snapshot(`{
		"offerId": "X",
		"mapping": {
			"marketSku": 100500,
			"card": {"shopSku": "ABC-1", "tags": ["steam", "key"]}
		}
	}`)

	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"top-level string", []string{"X"}, true},
		{"nested string", []string{"ABC-1"}, true},
		{"numeric identifier by string form", []string{"100500"}, true},
		{"value inside array", []string{"steam"}, true},
		{"no match", []string{"Y", "Z"}, false},
		{"empty keys never match", []string{""}, false},
		{"one of several keys", []string{"nope", "ABC-1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snap.ContainsValue(tt.keys...))
		})
	}
}

func TestSnapshotContainsValueDegenerate(t *testing.T) {
	var empty Snapshot
	assert.False(t, empty.ContainsValue("X"))

	malformed := Snapshot(`{"offerId":`)
	assert.False(t, malformed.ContainsValue("X"))
}
