package gift

import "github.com/google/uuid"

// NewID returns a unique identifier such as "task_3f0c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
