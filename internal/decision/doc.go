// Package decision classifies reasoning text into decision categories and
// extracts structured decision traces from session transcripts.
//
// Classification is an ordered table of regex rules, one pattern list per
// label. A thinking block may match several labels; the first label in
// table order is the primary decision type, and the full label set is
// preserved on the trace for consumers that want the secondary matches.
package decision
