// Package schema provides recursive type descriptors for the dynamic value
// model in package data.
//
// A Type mirrors the closed set of data kinds and adds the structural kinds
// list, map, record, and alias. Types carry an optional name and free-form
// attributes; the "key" attribute drives list-of-record-to-map conversion.
//
// Record types expose a deterministic pre-order flattening via Each. The
// flattening yields one Leaf per nested non-record field, with the full
// dotted path and the index trace from the root. Conversion walks this
// flattening in lockstep with a destination's declared members, so field
// order is part of a record type's contract.
package schema
