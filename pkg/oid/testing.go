package oid

import "testing"

// UseFixed configures a fixed OID value
func UseFixed(t *testing.T, value OID) {
	use(NewFixedGenerator(value))
	t.Cleanup(Reset)
}

// UseSequence configures a predefined sequence
func UseSequence(t *testing.T) {
	use(NewSequenceGenerator())
	t.Cleanup(Reset)
}
