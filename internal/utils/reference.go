package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference returns a public booking reference of the form
// "BK-" followed by 10 uppercase hex characters taken from a random UUID.
// The token is non-sequential and collisions are negligible at expected
// scale, but it is a display token for guests and staff, not a primary
// key; uniqueness is ultimately enforced by the database column.
func NewBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:10])
}
