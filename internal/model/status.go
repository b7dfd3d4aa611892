package model

// ExecutionStatus is the pipeline's user-visible state. The closed set below
// covers every terminal and intermediate state the driver can report.
type ExecutionStatus string

const (
	StatusPending ExecutionStatus = "pending"

	StatusSearchRunning           ExecutionStatus = "search_running"
	StatusSearchComplete          ExecutionStatus = "search_complete"
	StatusSearchCompleteNoResults ExecutionStatus = "search_complete_no_results"
	StatusSearchNoKeywords        ExecutionStatus = "search_complete_no_keywords"
	StatusSearchFailedConfig      ExecutionStatus = "search_failed_config"
	StatusSearchFailedDependency  ExecutionStatus = "search_failed_dependency"
	StatusSearchFailedInternal    ExecutionStatus = "search_failed_internal"

	StatusEnrichmentRunning            ExecutionStatus = "enrichment_running"
	StatusEnrichmentComplete           ExecutionStatus = "enrichment_complete"
	StatusEnrichmentCompleteWithErrors ExecutionStatus = "enrichment_complete_with_errors"

	StatusVettingRunning        ExecutionStatus = "vetting_running"
	StatusVettingComplete       ExecutionStatus = "vetting_complete"
	StatusVettingFailedConfig   ExecutionStatus = "vetting_failed_config"
	StatusVettingFailedInternal ExecutionStatus = "vetting_failed_internal"

	StatusError ExecutionStatus = "error"
)

// Terminal reports whether the status ends the pipeline.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case StatusSearchCompleteNoResults, StatusSearchNoKeywords,
		StatusSearchFailedConfig, StatusSearchFailedDependency,
		StatusSearchFailedInternal, StatusVettingComplete,
		StatusVettingFailedConfig, StatusVettingFailedInternal,
		StatusError:
		return true
	}
	return false
}

// Failed reports whether the status describes a failure.
func (s ExecutionStatus) Failed() bool {
	switch s {
	case StatusSearchFailedConfig, StatusSearchFailedDependency,
		StatusSearchFailedInternal, StatusVettingFailedConfig,
		StatusVettingFailedInternal, StatusError:
		return true
	}
	return false
}
