package application

import (
	"time"

	"github.com/google/uuid"
)

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator produces unique record identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator implementasi default, pakai uuid v4
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
