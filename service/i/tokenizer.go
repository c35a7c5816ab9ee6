package i

import (
	"time"
)

// Tokenizer issues and verifies access tokens.
type Tokenizer interface {
	// Generate signs claims into a token valid for expTime.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode verifies a token and returns its claims.
	Decode(token string) (map[string]interface{}, error)
}
