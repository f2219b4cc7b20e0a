// utils/utils.go

package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDString mints the transient identifier assigned to each
// connection for its lifetime.
func GenerateUUIDString() string {
	id := uuid.New()
	return id.String()
}
