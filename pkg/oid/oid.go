// Package oid generates the identifiers stamped on attachment runs.
//
// An attachment run is referenced weakly by its OID: background work
// (thumbnail generation) only keeps the OID and searches the live buffer
// when the result comes back.
package oid

import (
	"fmt"
	"regexp"
)

type OID string

const Nil = OID("")

var regexOID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func (o OID) IsNil() bool {
	return string(o) == ""
}

// Short returns an abbreviated form used in log messages.
func (o OID) Short() string {
	if len(o) < 7 {
		return string(o)
	}
	return string(o)[0:7]
}

// String returns the OID as a string.
func (o OID) String() string {
	return string(o)
}

/* Constructors */

func New() OID {
	mu.Lock()
	defer mu.Unlock()
	return generator.New()
}

/* Parser */

// Parse validates the OID format.
func Parse(s string) (OID, error) {
	if !regexOID.MatchString(s) {
		return Nil, fmt.Errorf("invalid oid %q", s)
	}
	return OID(s), nil
}

// MustParse parses an OID or panic if the OID format is not valid.
func MustParse(s string) OID {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}
