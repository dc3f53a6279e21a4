package selectors

import "fmt"

// UnknownSelectorError is returned when a request names a selector that is not defined.
type UnknownSelectorError struct {
	Name string
}

func (e *UnknownSelectorError) Error() string {
	return fmt.Sprintf("selector '%s' not found", e.Name)
}

// SelectorDefinitionError reports a malformed selectors file or definition.
type SelectorDefinitionError struct {
	// Selector is empty for file-level problems.
	Selector string
	Reason   string
	Err      error
}

func (e *SelectorDefinitionError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Selector == "" {
		return "invalid selectors file: " + msg
	}
	return fmt.Sprintf("invalid selector '%s': %s", e.Selector, msg)
}

func (e *SelectorDefinitionError) Unwrap() error {
	return e.Err
}
