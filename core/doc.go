// Package core holds the error taxonomy shared by every sframe package.
//
// Each failure belongs to exactly one class, checked with errors.Is:
//
//	ErrStructural     arity, depth or shape violations
//	ErrNonUnique      a composite row would appear twice
//	ErrKeyNotFound    a label could not be resolved
//	ErrType           a key does not apply to the level it targets
//	ErrNotImplemented a request the library recognizes but rejects
package core
