package helper

import (
	"errors"
	"testing"

	"lms-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterministic(t *testing.T) {
	a := Digest("lesson content")
	b := Digest("lesson content")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, Digest("lesson content."))
	// SHA-256 of the empty string, a fixed reference value.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Digest(""))
}

func TestByteSizeAndCharCount(t *testing.T) {
	// Multi-byte runes: byte length and character count diverge.
	content := "héllo, 世界"
	assert.Equal(t, int64(14), ByteSize(content))
	assert.Equal(t, 9, CharCount(content))

	assert.Equal(t, int64(0), ByteSize(""))
	assert.Equal(t, 0, CharCount(""))
}

func TestVerifyDigest(t *testing.T) {
	content := "body"
	require.NoError(t, VerifyDigest(content, Digest(content)))

	err := VerifyDigest(content, Digest("tampered"))
	require.Error(t, err)

	var mismatch *models.IntegrityMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, Digest("tampered"), mismatch.Expected)
	assert.Equal(t, Digest(content), mismatch.Actual)
}
