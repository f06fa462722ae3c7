package models

import "time"

// SyncState is the persisted revision watermark for one entity type.
type SyncState struct {
	EntityType   EntityType `json:"entity_type"`
	LastRevision Revision   `json:"last_revision"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StoredRecord is a replicated record as kept in the local store. Payload is
// the JSON encoding of the typed entity.
type StoredRecord struct {
	EntityType EntityType `json:"entity_type"`
	ID         string     `json:"id"`
	ChangeHash string     `json:"change_hash"`
	Revision   Revision   `json:"revision"`
	Payload    []byte     `json:"payload"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Page describes the trailer of one page of an update stream.
type Page struct {
	// Items is the number of records and tombstones delivered.
	Items int
	// ServerCount is the server's total record count for the type at
	// response time. Meaningful only when HasServerCount is set.
	ServerCount    int
	HasServerCount bool
}

// SyncResult summarises one incremental sync of a single entity type.
type SyncResult struct {
	EntityType  EntityType `json:"entity_type"`
	Applied     int        `json:"applied"`
	Deleted     int        `json:"deleted"`
	Unchanged   int        `json:"unchanged"`
	ServerCount int        `json:"server_count"`
	Pages       int        `json:"pages"`
	Revision    Revision   `json:"revision"`
	// Reconciled is set when a count mismatch triggered a full id diff;
	// Orphans is the number of local records that diff removed.
	Reconciled bool `json:"reconciled"`
	Orphans    int  `json:"orphans"`
	// Restreamed is set when records missing locally forced a second pass
	// from the first revision.
	Restreamed bool `json:"restreamed"`
}

// Changed reports whether the sync touched the local store at all.
func (r SyncResult) Changed() bool {
	return r.Applied > 0 || r.Deleted > 0 || r.Orphans > 0
}

// CycleReport collects per-type outcomes of one orchestration cycle.
type CycleReport struct {
	CycleID  string                    `json:"cycle_id"`
	Started  time.Time                 `json:"started"`
	Finished time.Time                 `json:"finished"`
	Results  map[EntityType]SyncResult `json:"results"`
	Errors   map[EntityType]error      `json:"-"`
	Skipped  []EntityType              `json:"skipped,omitempty"`
}

// TypeHealth is the diagnostic snapshot kept for one entity type.
type TypeHealth struct {
	EntityType  EntityType  `json:"entity_type"`
	RepeatCount int         `json:"repeat_count"`
	Stuck       bool        `json:"stuck"`
	LastError   string      `json:"last_error,omitempty"`
	LastErrorAt *time.Time  `json:"last_error_at,omitempty"`
	LastSuccess *time.Time  `json:"last_success,omitempty"`
	LastResult  *SyncResult `json:"last_result,omitempty"`
}

// TypeStatus is the externally reported state of one entity type.
type TypeStatus struct {
	TypeHealth
	LastRevision Revision `json:"last_revision"`
	LocalCount   int      `json:"local_count"`
}

// Status is the agent-wide report served by the health endpoint.
type Status struct {
	Healthy    bool         `json:"healthy"`
	TerminalID string       `json:"terminal_id"`
	Build      AppBuildInfo `json:"build"`
	Types      []TypeStatus `json:"types"`
}
