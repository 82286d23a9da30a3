package oid

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	mu        sync.Mutex
	generator Generator = &UniqueGenerator{}
)

/* Generator */

type Generator interface {
	New() OID
}

// Reset restores the original unique OID generator.
// Useful in tests with a defer after overriding the default generator.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	generator = &UniqueGenerator{}
}

func use(g Generator) {
	mu.Lock()
	defer mu.Unlock()
	generator = g
}

/*
 * UniqueGenerator
 */

// UniqueGenerator is a production-grade Generator returning random OIDs.
type UniqueGenerator struct{}

// New generates a 32-characters hexadecimal OID from a UUIDv4.
func (g *UniqueGenerator) New() OID {
	return OID(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

/*
 * FixedGenerator
 */

// FixedGenerator returns always the same OID.
type FixedGenerator struct {
	oid OID
}

func NewFixedGenerator(oid OID) *FixedGenerator {
	return &FixedGenerator{oid: oid}
}

func (g *FixedGenerator) New() OID {
	return g.oid
}

/*
 * SequenceGenerator
 */

// SequenceGenerator returns numbered OIDs in a predictable format.
// This generator is useful for tests when checking different attachments.
type SequenceGenerator struct {
	count int
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (g *SequenceGenerator) New() OID {
	g.count++
	return OID(fmt.Sprintf("%032d", g.count))
}
