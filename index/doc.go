// Package index implements Level, the single-depth label index that every
// hierarchical index is composed of.
//
// A Level maps unique labels to the positions 0..Len()-1. Its Kind is fixed
// at construction and decides how lookup keys are coerced; a date level
// accepts "2019-01-05" as well as time.Time values, and resolves "2019" or
// "2019-01" to every date inside that period.
package index
