package infrastructure

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NewUUIDGenerator returns the default booking/train ID generator.
func NewUUIDGenerator() func() string {
	return func() string {
		return uuid.New().String()
	}
}

func MarshalPayload[T any](payload T) ([]byte, error) {
	return json.Marshal(payload)
}
