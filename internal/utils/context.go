// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, JWT token validation, UUID generation,
// and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated owner identifier
// in the context. Used together with GetUserIDFromContext for type-safe
// retrieval of the owner ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, "2c2c4df2-...")
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext retrieves the owner identifier from the context.
//
// Returns the owner ID and an ok flag:
//   - ok == true  — value is found, has the correct string type, and is non-empty
//   - ok == false — value is missing, empty, or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	if userID == "" {
		return "", false
	}
	return userID, ok
}
