package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_NoDuplicateKeys(t *testing.T) {
	k := DefaultKeyMap()
	seen := map[string]string{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			for _, key := range b.Keys() {
				prev, dup := seen[key]
				assert.False(t, dup, "key %q bound to both %q and %q", key, prev, b.Help().Desc)
				seen[key] = b.Help().Desc
			}
		}
	}
	assert.Len(t, k.ShortHelp(), 7)
}
