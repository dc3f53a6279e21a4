package methods

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/dagselect/internal/node"
)

type configMethod struct{}

func (configMethod) Validate(args []string, value string) error {
	if len(args) == 0 {
		return &InvalidValueError{Method: Config, Value: value, Reason: "expected a config key, e.g. config.materialized:table"}
	}
	return nil
}

// Match walks the dotted key through nested config maps and compares the
// leaf by its string form. List values match when any element does.
func (configMethod) Match(n *node.Node, args []string, value string) (bool, error) {
	var current any = n.Config
	for _, key := range args {
		m, ok := current.(map[string]any)
		if !ok {
			return false, nil
		}
		current, ok = m[key]
		if !ok {
			return false, nil
		}
	}

	switch v := current.(type) {
	case nil:
		return false, nil
	case []any:
		for _, elem := range v {
			if configString(elem) == value {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		return false, fmt.Errorf("config key %q is a mapping, not a value", strings.Join(args, "."))
	default:
		return configString(v) == value, nil
	}
}

func configString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
