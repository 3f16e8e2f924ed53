package peers

import "errors"

// Merging two independently failing remote lookups into one verdict is the
// one genuinely tricky decision in this service. It is expressed as an
// ordered decision table over tagged outcomes rather than nested
// conditionals, so the precedence can be audited and tested without I/O.

type lookupScope int

const (
	scopeGame lookupScope = iota
	scopeReferee
)

type lookupClass int

const (
	classOK lookupClass = iota
	classNotFound
	classFault
)

// lookupOutcome tags one remote lookup with its scope and classification.
// Outcomes are collected in input order; order breaks ties within a rank so
// the verdict is reproducible for the same input and peer responses.
type lookupOutcome struct {
	scope lookupScope
	class lookupClass
	err   error
}

// precedence ranks failure causes from highest to lowest. The game anchor
// outranks referees, and within each scope a communication fault outranks
// not-found: an unreachable dependency makes "not found" indeterminate.
var precedence = []struct {
	scope lookupScope
	class lookupClass
}{
	{scopeGame, classFault},
	{scopeGame, classNotFound},
	{scopeReferee, classFault},
	{scopeReferee, classNotFound},
}

// classify maps a lookup error to its outcome class.
func classify(err error) lookupClass {
	var comm *CommError
	switch {
	case err == nil:
		return classOK
	case errors.As(err, &comm):
		return classFault
	}
	return classNotFound
}

// merge returns the highest-ranked failure among outcomes, or nil when all
// lookups succeeded.
func merge(outcomes []lookupOutcome) error {
	for _, rank := range precedence {
		for _, o := range outcomes {
			if o.scope == rank.scope && o.class == rank.class {
				return o.err
			}
		}
	}
	return nil
}
