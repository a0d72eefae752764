package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the run outcome and every assertion match.
	Pass bool `json:"pass"`

	// ErrorCode is the SyncError code of a failed run, "ERROR" for any
	// other failure, or "" on success.
	ErrorCode string `json:"error_code,omitempty"`

	// Written lists paths in write order, with repeats.
	Written []string `json:"written"`

	// Warnings are the report warnings.
	Warnings []string `json:"warnings,omitempty"`

	// Files is the final tree.
	Files map[string]string `json:"files"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Written: []string{},
		Files:   map[string]string{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
