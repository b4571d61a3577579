// Package access declares the capability predicate the core consults before
// exposing permission-gated surfaces (user-scoped filters, duplicate-candidate
// links). Permission storage and bit definitions live with the caller; the
// core only asks "can this user do X to Y".
package access

// Checker answers capability questions. Action is a verb ("list", "view"),
// subject a resource name ("user", "case", "contact").
type Checker interface {
	Can(action, subject string) bool
}

// CheckerFunc adapts a function into a Checker.
type CheckerFunc func(action, subject string) bool

// Can delegates to the underlying function.
func (fn CheckerFunc) Can(action, subject string) bool {
	return fn(action, subject)
}

// AllowAll grants every capability. Intended for tests and trusted tooling.
func AllowAll() Checker {
	return CheckerFunc(func(string, string) bool { return true })
}

// DenyAll refuses every capability.
func DenyAll() Checker {
	return CheckerFunc(func(string, string) bool { return false })
}
