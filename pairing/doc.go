// Package pairing matches identifiers found in body text to the tables
// that follow them.
//
// Word-processing formats store paragraphs and tables side by side with no
// link between a table and the paragraph that introduces it. Extract pairs
// them with a single forward-only cursor over the non-blank text blocks:
// for each table, in order, the cursor advances to the next block that
// contains an identifier and stops just past it. A block is therefore
// attributed to at most one table, and every table yields exactly one
// record, even when no identifier is left for it or its rows are missing.
//
// Basic usage:
//
//	records := pairing.Extract(doc.Blocks, doc.Tables)
//
// With options:
//
//	records, matches := pairing.New(pairing.Options{Digits: 6}).Pair(doc.Blocks, doc.Tables)
package pairing
