// Package ident generates collision-resistant string identifiers for
// tasks and subtasks.
package ident

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// New returns a fresh unique identifier. UUIDv4 normally; if the
// system entropy source fails, a timestamp+random fallback is used
// so callers never receive an empty ID.
func New() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36) +
			strconv.FormatInt(rand.Int63(), 36)
	}
	return id.String()
}
