package models

// ValidationIssue is one problem found while auditing the catalog.
type ValidationIssue struct {
	Entity  string `json:"entity"`
	Key     string `json:"key"`
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationReport summarises a catalog audit.
type ValidationReport struct {
	Checked map[string]int    `json:"checked"`
	Issues  []ValidationIssue `json:"issues"`
}

// OK reports whether the audit found nothing.
func (r ValidationReport) OK() bool {
	return len(r.Issues) == 0
}
