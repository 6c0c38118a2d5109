// Package planner picks the access path for fetching a query's
// candidate rows: an indexed point lookup when the filter is an
// equality probe on a constraint-indexed column, a sequential scan
// otherwise.
package planner

import "reldb/internal/schema"

// Plan is the interface for table access plans.
type Plan interface {
	planNode()
}

// SeqScan reads every row of the table and filters afterwards.
type SeqScan struct {
	Table string
}

func (*SeqScan) planNode() {}

// IndexLookup probes the column's constraint index for one value.
type IndexLookup struct {
	Table  string
	Column string
	Value  schema.Value
}

func (*IndexLookup) planNode() {}
