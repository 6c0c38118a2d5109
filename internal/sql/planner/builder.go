package planner

import "reldb/internal/schema"

// EqFilter is an equality comparison that may qualify as an index
// probe.
type EqFilter struct {
	Column string
	Value  schema.Value
}

// Build chooses the access path for one table. Only an equality filter
// on a primary-key or unique column becomes an index lookup; a NULL
// probe always scans, since constraint indexes hold no NULL entries.
func Build(sch *schema.Schema, table string, eq *EqFilter) Plan {
	if eq == nil || eq.Value.IsNull() {
		return &SeqScan{Table: table}
	}
	col, ok := sch.Column(eq.Column)
	if !ok || !(col.PrimaryKey || col.Unique) {
		return &SeqScan{Table: table}
	}
	return &IndexLookup{Table: table, Column: eq.Column, Value: eq.Value}
}
