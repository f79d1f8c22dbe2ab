// Package tablefile reads and writes tables as JSON documents and reads
// long-format cell records (one JSON object per line).
//
// A document looks like:
//
//	{
//	  "row_names": ["region", "city"],
//	  "col_names": ["metric"],
//	  "rows": [["North", "Oslo"], ["North", "Bergen"]],
//	  "cols": [["units"], ["returns"]],
//	  "values": [[10, 1], [12, null]],
//	  "chain": {"totals": ["Totals"]}
//	}
//
// Missing values are written as null. A flat key may be given as a plain
// string instead of a one-element array.
package tablefile
