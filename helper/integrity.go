package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"

	"lms-backoffice/models"
)

// Digest computes the SHA-256 hex digest over the exact bytes of content.
// Identical content always yields an identical digest.
func Digest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ByteSize returns the byte length of content.
func ByteSize(content string) int64 {
	return int64(len(content))
}

// CharCount returns the character (rune) count of content.
func CharCount(content string) int {
	return utf8.RuneCountInString(content)
}

// VerifyDigest recomputes the digest of content and compares it against
// expected, returning IntegrityMismatchError when they differ.
func VerifyDigest(content, expected string) error {
	actual := Digest(content)
	if actual != expected {
		return &models.IntegrityMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
