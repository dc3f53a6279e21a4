package methods

import (
	"path"
	"strings"

	"github.com/specialistvlad/dagselect/internal/node"
)

type pathMethod struct{}

func (pathMethod) Validate(args []string, value string) error {
	if err := noArgs(Path, args, value); err != nil {
		return err
	}
	if _, err := path.Match(cleanPath(value), ""); err != nil {
		return &InvalidValueError{Method: Path, Value: value, Reason: err.Error()}
	}
	return nil
}

// Match selects nodes whose file matches value as a glob, or lives in the
// directory value names.
func (pathMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	if n.Path == "" {
		return false, nil
	}
	pattern := cleanPath(value)
	file := path.Clean(n.Path)

	if ok, err := path.Match(pattern, file); err != nil || ok {
		return ok, err
	}
	if pattern == "." {
		return true, nil
	}
	return strings.HasPrefix(file, pattern+"/"), nil
}

func cleanPath(p string) string {
	return path.Clean(strings.TrimPrefix(p, "./"))
}
