package taxes

// ValidatePayload checks a tax base for the minimum data needed to compute
// taxes. It is a pure predicate: no side effects, no I/O.
//
// Both failures are expected states of a checkout in progress, not system
// faults. Callers branch on the sentinel: ErrMissingAddress has a defined
// zero-tax fallback, ErrMissingLines is always an error.
func ValidatePayload(tb *TaxBase) error {
	if len(tb.Lines) == 0 {
		return ErrMissingLines
	}
	if tb.Address == nil {
		return ErrMissingAddress
	}
	return nil
}
