package executor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dagselect/internal/node"
)

// Handler executes a single node.
type Handler interface {
	Execute(ctx context.Context, n *node.Node) (Status, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, n *node.Node) (Status, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, n *node.Node) (Status, error) {
	return f(ctx, n)
}

// Handlers maps resource types to handlers. It is populated before
// execution and read concurrently afterwards.
type Handlers struct {
	byType map[node.ResourceType]Handler
}

// NewHandlers creates an empty handler registry.
func NewHandlers() *Handlers {
	return &Handlers{byType: make(map[node.ResourceType]Handler)}
}

// DefaultHandlers registers DeclaredOutcome for every resource type.
func DefaultHandlers() *Handlers {
	h := NewHandlers()
	for _, rt := range node.ResourceTypes {
		h.Register(rt, DeclaredOutcome())
	}
	return h
}

// Register adds or replaces the handler for a resource type.
func (h *Handlers) Register(rt node.ResourceType, handler Handler) {
	h.byType[rt] = handler
}

// Get returns the handler for a resource type.
func (h *Handlers) Get(rt node.ResourceType) (Handler, bool) {
	handler, ok := h.byType[rt]
	return handler, ok
}

// DeclaredOutcome reports the outcome declared on the node. Tests map each
// outcome to the matching status; other nodes succeed unless they declare
// fail or error.
func DeclaredOutcome() Handler {
	return HandlerFunc(func(ctx context.Context, n *node.Node) (Status, error) {
		if err := ctx.Err(); err != nil {
			return StatusSkipped, err
		}

		outcome := n.Expect
		if outcome == "" {
			outcome = node.OutcomePass
		}

		if n.IsTest() {
			switch outcome {
			case node.OutcomePass:
				return StatusPass, nil
			case node.OutcomeWarn:
				return StatusWarn, nil
			case node.OutcomeFail:
				return StatusFail, nil
			default:
				return StatusError, fmt.Errorf("test declared outcome %q", outcome)
			}
		}

		switch outcome {
		case node.OutcomeFail, node.OutcomeError:
			return StatusError, fmt.Errorf("%s declared outcome %q", n.ResourceType, outcome)
		default:
			return StatusSuccess, nil
		}
	})
}
