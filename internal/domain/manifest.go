package domain

import "time"

type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusPartial RunStatus = "partial"
	StatusFailed  RunStatus = "failed"
)

type TableStatus string

const (
	TableSuccess TableStatus = "success"
	TableFailed  TableStatus = "failed"
)

// TableResult records one table's outcome inside a manifest. Rows counts
// what reached disk, even when the export failed partway.
type TableResult struct {
	Rows   int64       `json:"rows"`
	Status TableStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// Manifest summarizes a single database backup run. It is created when the
// run starts and finalized before it is written into the run directory.
type Manifest struct {
	DatabaseLabel string                 `json:"database_label"`
	Engine        string                 `json:"engine"`
	Connection    string                 `json:"connection"`
	StartedAt     time.Time              `json:"started_at"`
	CompletedAt   time.Time              `json:"completed_at"`
	Status        RunStatus              `json:"status"`
	TotalTables   int                    `json:"total_tables"`
	TotalRows     int64                  `json:"total_rows"`
	Tables        map[string]TableResult `json:"tables"`
}

func NewManifest(label, engine, connection string, startedAt time.Time) *Manifest {
	return &Manifest{
		DatabaseLabel: label,
		Engine:        engine,
		Connection:    connection,
		StartedAt:     startedAt,
		Tables:        make(map[string]TableResult),
	}
}

// RecordTable stores one table's result. A table name appears at most once.
func (m *Manifest) RecordTable(table string, result TableResult) {
	m.Tables[table] = result
}

// Finalize computes the overall status and totals. TotalRows sums only
// successful tables; failed tables contribute zero but stay listed.
func (m *Manifest) Finalize(completedAt time.Time) {
	m.CompletedAt = completedAt
	m.TotalTables = len(m.Tables)

	var succeeded, failed int
	m.TotalRows = 0
	for _, result := range m.Tables {
		switch result.Status {
		case TableSuccess:
			succeeded++
			m.TotalRows += result.Rows
		case TableFailed:
			failed++
		}
	}

	switch {
	case failed == 0:
		m.Status = StatusSuccess
	case succeeded == 0:
		m.Status = StatusFailed
	default:
		m.Status = StatusPartial
	}
}
