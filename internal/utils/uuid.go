package utils

import "github.com/google/uuid"

// UUIDGenerator mints server-issued entry identifiers.
// Version 7 UUIDs are preferred because they sort roughly by creation time.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
