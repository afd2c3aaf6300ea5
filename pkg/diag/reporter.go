package diag

// Reporter batches diagnostics raised while compiling a single module.
// Every stage of the core takes a *Reporter rather than returning bare
// errors, so that independent problems (e.g. two unrelated
// UndeclaredIdentifier errors in different constraints) are all visible to
// the caller instead of only the first one found.
//
// A Reporter distinguishes ordinary diagnostics, which are batched, from a
// single fatal error (overflow, or an internal invariant violation), which
// aborts the batch: once Fatal has been called, further calls to Report are
// ignored and HasErrors/Diagnostics reflect only the fatal error.
type Reporter struct {
	diagnostics []*Diagnostic
	fatal       *Diagnostic
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report records a diagnostic in the batch.  It is a no-op once Fatal has
// been called.
func (r *Reporter) Report(d *Diagnostic) {
	if r.fatal != nil {
		return
	}

	r.diagnostics = append(r.diagnostics, d)
}

// Fatal records a single fatal diagnostic and discards any diagnostics
// already batched, since the batch can no longer be trusted to be
// complete or consistent once a fatal condition (e.g. arithmetic overflow)
// has occurred.
func (r *Reporter) Fatal(d *Diagnostic) {
	r.fatal = d
	r.diagnostics = nil
}

// HasErrors reports whether any diagnostic, fatal or batched, has been
// recorded.
func (r *Reporter) HasErrors() bool {
	return r.fatal != nil || len(r.diagnostics) > 0
}

// Diagnostics returns the diagnostics to report to the caller: the single
// fatal diagnostic if one was raised, otherwise the full batch in the
// order they were reported.
func (r *Reporter) Diagnostics() []*Diagnostic {
	if r.fatal != nil {
		return []*Diagnostic{r.fatal}
	}

	return r.diagnostics
}
