package methods

import (
	"path"
	"strings"

	"github.com/specialistvlad/dagselect/internal/node"
)

type sourceMethod struct{}

func (sourceMethod) Validate(args []string, value string) error {
	if err := noArgs(Source, args, value); err != nil {
		return err
	}
	parts := strings.Split(value, ".")
	if len(parts) > 3 {
		return &InvalidValueError{
			Method: Source,
			Value:  value,
			Reason: "expected 'source', 'source.table', or 'package.source.table'",
		}
	}
	for _, part := range parts {
		if part == "" {
			return &InvalidValueError{Method: Source, Value: value, Reason: "empty name part"}
		}
		if _, err := path.Match(part, ""); err != nil {
			return &InvalidValueError{Method: Source, Value: value, Reason: err.Error()}
		}
	}
	return nil
}

// Match compares the dotted value against a source's package, source name,
// and table name. One part names a source, two name source.table, three
// name package.source.table. `*` matches anything in its position.
func (sourceMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	if n.ResourceType != node.Source {
		return false, nil
	}

	var want, have []string
	parts := strings.Split(value, ".")
	switch len(parts) {
	case 1:
		want, have = parts, []string{n.SourceName}
	case 2:
		want, have = parts, []string{n.SourceName, n.TableName}
	default:
		want, have = parts, []string{n.Package, n.SourceName, n.TableName}
	}

	for i := range want {
		ok, err := path.Match(want[i], have[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
