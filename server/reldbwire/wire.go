package reldbwire

import "reldb/internal/sql/executor"

// ExecuteRequest is a single SQL command request.
type ExecuteRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// ExecuteResponse answers a request ID. Error carries protocol-level
// failures only; statement failures arrive inside Result.
type ExecuteResponse struct {
	ID     uint64           `json:"id"`
	Result *executor.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}
