package domain

// RunOutcome is the aggregate result of backing up one configured
// database. Manifest is nil when the connector could not even be opened.
type RunOutcome struct {
	Label        string
	Manifest     *Manifest
	ArtifactPath string
	Success      bool
	Err          error
}
