package validation

// Report is the outcome of a validation run: every finding in document order
// (project, task presenter, tutorial), followed by cross-document findings.
type Report struct {
	Findings  []Finding
	Documents []DocumentKind // documents that were present
}

// HasErrors returns true if any finding is an error.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.IsError() {
			return true
		}
	}
	return false
}

// Valid is the inverse of HasErrors. Warnings do not invalidate a project.
func (r *Report) Valid() bool {
	return !r.HasErrors()
}

// Errors returns the error findings.
func (r *Report) Errors() []Finding {
	return r.filter(func(f Finding) bool { return f.IsError() })
}

// Warnings returns the warning findings.
func (r *Report) Warnings() []Finding {
	return r.filter(func(f Finding) bool { return !f.IsError() })
}

// ByDocument returns the findings of one document in report order.
func (r *Report) ByDocument(kind DocumentKind) []Finding {
	return r.filter(func(f Finding) bool { return f.Document == kind })
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errs, warnings int) {
	for _, f := range r.Findings {
		if f.IsError() {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

func (r *Report) filter(keep func(Finding) bool) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
