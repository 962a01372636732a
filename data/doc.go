// Package data provides the dynamic, schema-less value model: a closed
// tagged union (Data) over scalar and structural kinds, plus the ordered
// named-field aggregate Record.
//
// Equality, ordering, and hashing are total and consistent across all
// variants. Values of different kinds order by a fixed, documented variant
// order, so any two values compare deterministically.
//
// Records permit duplicate field names at construction; conventional usage
// treats lookup by name as first-match. Flatten, Merge, and Strip implement
// the recursive structural operations shared by readers and the settings
// layer, with recursion bounded by MaxRecursionDepth.
package data
