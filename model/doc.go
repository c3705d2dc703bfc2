// Package model provides the intermediate representation shared by the
// document readers, the pairing extractor, and the exporters.
//
// A parsed document is two independent ordered sequences: the body's
// [TextBlock] values and the body's [Table] values. The container formats
// this project reads do not link a paragraph to the table that follows it,
// so nothing in this package records such a link.
//
// # Tables
//
// [Table] is a read-only row/column grid of [Cell] values. Readers fill it
// from the source markup. A merged cell is repeated in every grid slot it
// covers, so [Table.CellText] returns the merged text wherever it is read.
//
// # Records
//
// [Record] is the output unit of an extraction: one identifier paired with
// two cell values taken from the first column of a table.
package model
