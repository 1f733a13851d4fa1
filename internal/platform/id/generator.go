package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque IDs for entities the upstream API returned
// without one.
type Generator interface {
	NewID() string
	Short() string
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a 16-byte random hex string. rand.Read on a CSPRNG does
// not fail in practice; a zero id is never produced.
func (g *RandomGenerator) NewID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(buf)
}

// Short returns an 8-character id suitable for synthetic entity keys.
func (g *RandomGenerator) Short() string {
	return g.NewID()[:8]
}
