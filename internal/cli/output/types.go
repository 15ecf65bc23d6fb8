package output

// LintSummary counts diagnostics by severity.
type LintSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	FilesFailed     int `json:"files_failed"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
}

// LintDiagnostic is one violation in JSON output. Lines are 1-based.
type LintDiagnostic struct {
	RuleID   string `json:"rule"`
	Severity string `json:"level"`
	Message  string `json:"message"`
	Line     int    `json:"lineNumber"`
	Evidence string `json:"evidence,omitempty"`
	Context  string `json:"context,omitempty"`
}

// LintFileResult groups diagnostics for one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintOutput is the JSON document produced by the lint command.
type LintOutput struct {
	Files   []LintFileResult `json:"files"`
	Summary LintSummary      `json:"summary"`
}
