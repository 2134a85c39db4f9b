package ogrescript

// IssueLevel represents severity of a diagnostic issue.
type IssueLevel string

const (
	// IssueError indicates a fatal condition that aborted a file or chunk.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a recovered condition.
	IssueWarning IssueLevel = "warning"
)

// Issue represents one diagnostic recorded while parsing, generating, or
// synchronizing assets.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Affected material, unit, or file
}

// Report accumulates structured diagnostics across a scan-then-generate
// run. All methods are nil-safe so a Report is strictly optional.
type Report struct {
	Materials []string `json:"materials,omitempty" yaml:"materials,omitempty"` // Emitted material names in order
	Issues    []Issue  `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// AddMaterial records an emitted material name.
func (r *Report) AddMaterial(name string) {
	if r == nil {
		return
	}
	r.Materials = append(r.Materials, name)
}

// Warn records a warning issue.
func (r *Report) Warn(code, message, path string) {
	if r == nil {
		return
	}
	r.Issues = append(r.Issues, Issue{Level: IssueWarning, Code: code, Message: message, Path: path})
}

// Error records an error issue.
func (r *Report) Error(code, message, path string) {
	if r == nil {
		return
	}
	r.Issues = append(r.Issues, Issue{Level: IssueError, Code: code, Message: message, Path: path})
}

// Warnings returns the recorded warning issues.
func (r *Report) Warnings() []Issue {
	return r.filter(IssueWarning)
}

// Errors returns the recorded error issues.
func (r *Report) Errors() []Issue {
	return r.filter(IssueError)
}

func (r *Report) filter(level IssueLevel) []Issue {
	if r == nil {
		return nil
	}

	var out []Issue
	for _, issue := range r.Issues {
		if issue.Level == level {
			out = append(out, issue)
		}
	}

	return out
}
