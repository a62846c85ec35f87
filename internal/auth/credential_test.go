package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint("abcd efgh ijkl mnop")

	assert.Len(t, a, 12)
	assert.Equal(t, a, Fingerprint("abcd efgh ijkl mnop"))
	assert.NotEqual(t, a, Fingerprint("abcd efgh ijkl mnoq"))
	assert.NotContains(t, a, "abcd")
	assert.Empty(t, Fingerprint(""))
}
