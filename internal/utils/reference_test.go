package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBookingReferenceFormat(t *testing.T) {
	ref := NewBookingReference()
	require.Regexp(t, `^BK-[A-Z0-9]{10}$`, ref)
}

func TestNewBookingReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := NewBookingReference()
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
