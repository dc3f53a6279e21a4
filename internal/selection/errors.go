package selection

import "fmt"

// GrammarError reports a malformed selection string.
type GrammarError struct {
	// Input is the full selection string.
	Input string
	// Fragment is the offending term.
	Fragment string
	Reason   string
}

func (e *GrammarError) Error() string {
	if e.Fragment == "" || e.Fragment == e.Input {
		return fmt.Sprintf("invalid selection '%s': %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid selection '%s': term '%s': %s", e.Input, e.Fragment, e.Reason)
}

// EmptySelectionWarning records a criterion, or a whole request, that
// selected no nodes. It is logged and returned with the result; it never
// fails a request.
type EmptySelectionWarning struct {
	// Criterion is empty when the warning is about the final selection.
	Criterion string
}

func (w EmptySelectionWarning) String() string {
	if w.Criterion == "" {
		return "the selection criteria did not match any nodes"
	}
	return fmt.Sprintf("the selection criterion '%s' does not match any nodes", w.Criterion)
}
