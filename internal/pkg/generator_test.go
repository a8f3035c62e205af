package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIDs(t *testing.T) {
	t.Run("Session IDs are url-safe and unique", func(t *testing.T) {
		first := GenerateNewSessionID()
		second := GenerateNewSessionID()

		assert.Len(t, first, 43)
		assert.NotContains(t, first, "/")
		assert.NotEqual(t, first, second)
	})

	t.Run("Game IDs are 16 hex chars", func(t *testing.T) {
		id := GenerateGameID()

		assert.Regexp(t, `^[0-9a-f]{16}$`, id)
		assert.NotEqual(t, id, GenerateGameID())
	})
}
