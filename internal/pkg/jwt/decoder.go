// internal/pkg/jwt/decoder.go
package jwt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Decoder reads claims out of a bearer token without verifying its signature.
// The storefront client holds no key material, so decoded claims are only ever
// used to render who is logged in.
type Decoder struct {
	parser *jwt.Parser
}

func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode reads the claims segment of a three-part token. The header and the
// signature are not looked at, so a token with no alg or an unknown one still
// decodes.
func (d *Decoder) Decode(tokenString string) (*Claims, error) {
	parts := strings.Split(strings.TrimSpace(tokenString), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token must have three segments")
	}

	payload, err := d.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode claims segment: %w", err)
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return claims, nil
}

// TryDecode returns nil instead of an error. Callers treat an undecodable token
// as anonymous.
func (d *Decoder) TryDecode(tokenString string) *Claims {
	claims, err := d.Decode(tokenString)
	if err != nil {
		return nil
	}
	return claims
}
