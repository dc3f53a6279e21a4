package selection

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
)

// Criterion is a single method predicate plus the graph operators applied
// to its matches.
type Criterion struct {
	// Raw is the text the criterion was parsed from, if any.
	Raw    string
	Method string
	// Args are the dotted method arguments, e.g. ["materialized"] for config.materialized.
	Args  []string
	Value string

	Parents          bool
	ParentsDepth     int
	Children         bool
	ChildrenDepth    int
	ChildrensParents bool

	// IndirectSelection overrides the request policy when set. Only selector
	// definitions populate it.
	IndirectSelection IndirectSelection
}

// NewCriterion returns a criterion without graph operators. Depths default
// to graph.Unbounded.
func NewCriterion(method, value string, args ...string) *Criterion {
	return &Criterion{
		Method:        method,
		Args:          args,
		Value:         value,
		ParentsDepth:  graph.Unbounded,
		ChildrenDepth: graph.Unbounded,
	}
}

// MethodSpec returns the method name joined with its arguments.
func (c *Criterion) MethodSpec() string {
	return strings.Join(append([]string{c.Method}, c.Args...), ".")
}

// String renders the criterion in selection string syntax.
func (c *Criterion) String() string {
	if c.Raw != "" {
		return c.Raw
	}

	var sb strings.Builder
	if c.ChildrensParents {
		sb.WriteByte('@')
	}
	if c.Parents {
		if c.ParentsDepth >= 0 {
			sb.WriteString(strconv.Itoa(c.ParentsDepth))
		}
		sb.WriteByte('+')
	}
	if c.Method != methods.FQN || len(c.Args) > 0 {
		sb.WriteString(c.MethodSpec())
		sb.WriteByte(':')
	}
	sb.WriteString(c.Value)
	if c.Children {
		sb.WriteByte('+')
		if c.ChildrenDepth >= 0 {
			sb.WriteString(strconv.Itoa(c.ChildrenDepth))
		}
	}
	return sb.String()
}
