package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTreeKeyFormat(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key := NewTreeKey()
		assert.Len(t, key, TreeKeyLength)
		for _, r := range key {
			assert.Truef(t, strings.ContainsRune(treeKeyAlphabet, r),
				"key %q contains character %q outside the allowed alphabet", key, r)
		}
		seen[key] = true
	}

	// 200 draws from a 36^12 space; any collision points at a broken generator.
	assert.Len(t, seen, 200)
}
