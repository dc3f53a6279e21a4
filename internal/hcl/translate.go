package hcl

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/specialistvlad/dagselect/internal/config"
	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// translate converts the decoded files into the agnostic project model.
// It runs in two passes: nodes are built first, then tested column tags
// are resolved against the columns of the tested nodes.
func (l *Loader) translate(ctx context.Context, files []decodedFile) (*config.Project, error) {
	name, err := projectName(files)
	if err != nil {
		return nil, err
	}
	project := &config.Project{Name: name}

	for _, f := range files {
		logger := ctxlog.FromContext(ctx).With("file", f.path)

		kinds := []struct {
			rt     node.ResourceType
			blocks []*Resource
		}{
			{node.Model, f.root.Models},
			{node.Seed, f.root.Seeds},
			{node.Snapshot, f.root.Snapshots},
			{node.Analysis, f.root.Analyses},
		}
		for _, kind := range kinds {
			for _, r := range kind.blocks {
				n, err := l.translateResource(name, f.path, kind.rt, r)
				if err != nil {
					return nil, fmt.Errorf("%s: %s '%s': %w", f.path, kind.rt, r.Name, err)
				}
				project.Nodes = append(project.Nodes, n)
			}
		}
		for _, s := range f.root.Sources {
			n, err := l.translateSource(name, f.path, s)
			if err != nil {
				return nil, fmt.Errorf("%s: source '%s.%s': %w", f.path, s.SourceName, s.TableName, err)
			}
			project.Nodes = append(project.Nodes, n)
		}
		for _, t := range f.root.Tests {
			n, err := l.translateTest(name, f.path, t)
			if err != nil {
				return nil, fmt.Errorf("%s: test '%s': %w", f.path, t.Name, err)
			}
			project.Nodes = append(project.Nodes, n)
		}
		logger.Debug("Translated HCL file.", "nodes", len(project.Nodes))
	}

	resolveColumnTags(project.Nodes)
	return project, nil
}

func projectName(files []decodedFile) (string, error) {
	var names []string
	for _, f := range files {
		for _, p := range f.root.Projects {
			names = append(names, p.Name)
		}
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no project block found")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("expected exactly one project block, found %d: %v", len(names), names)
	}
}

func (l *Loader) translateResource(project, file string, rt node.ResourceType, r *Resource) (*node.Node, error) {
	pkg := packageOr(r.Package, project)
	id, err := identify(string(rt), pkg, r.Name)
	if err != nil {
		return nil, err
	}
	n := &node.Node{
		UniqueID:     id,
		ResourceType: rt,
		Package:      pkg,
		Name:         r.Name,
		Path:         pathOr(r.Path, file),
		Tags:         r.Tags,
		Columns:      columns(r.Columns),
	}
	n.FQN = fqnOr(r.FQN, pkg, n.Path, r.Name)

	if n.DependsOn, err = qualifyAll(r.DependsOn, pkg); err != nil {
		return nil, err
	}
	if n.Config, err = evalObject(r.Config, "config"); err != nil {
		return nil, err
	}
	if n.Expect, err = node.ParseOutcome(r.Expect); err != nil {
		return nil, err
	}
	return n, nil
}

func (l *Loader) translateSource(project, file string, s *Source) (*node.Node, error) {
	pkg := packageOr(s.Package, project)
	id, err := identify("source", pkg, s.SourceName, s.TableName)
	if err != nil {
		return nil, err
	}
	n := &node.Node{
		UniqueID:     id,
		ResourceType: node.Source,
		Package:      pkg,
		Name:         s.TableName,
		Path:         pathOr(s.Path, file),
		Tags:         s.Tags,
		Columns:      columns(s.Columns),
		SourceName:   s.SourceName,
		TableName:    s.TableName,
	}
	n.FQN = fqnOr(s.FQN, pkg, n.Path, s.SourceName, s.TableName)

	if n.Config, err = evalObject(s.Config, "config"); err != nil {
		return nil, err
	}
	return n, nil
}

func (l *Loader) translateTest(project, file string, t *Test) (*node.Node, error) {
	pkg := packageOr(t.Package, project)
	id, err := identify("test", pkg, t.Name)
	if err != nil {
		return nil, err
	}
	n := &node.Node{
		UniqueID:     id,
		ResourceType: node.Test,
		Package:      pkg,
		Name:         t.Name,
		Path:         pathOr(t.Path, file),
		Tags:         t.Tags,
	}
	n.FQN = fqnOr(t.FQN, pkg, n.Path, t.Name)

	if n.DependsOn, err = qualifyAll(t.DependsOn, pkg); err != nil {
		return nil, err
	}
	if n.Config, err = evalObject(t.Config, "config"); err != nil {
		return nil, err
	}
	if n.Expect, err = node.ParseOutcome(t.Expect); err != nil {
		return nil, err
	}

	if t.Generic == "" {
		if t.Namespace != "" || len(t.Tested) > 0 {
			return nil, fmt.Errorf("'namespace' and 'tested' require 'generic'")
		}
		return n, nil
	}

	kwargs, err := evalObject(t.Kwargs, "kwargs")
	if err != nil {
		return nil, err
	}
	n.TestMetadata = &node.TestMetadata{Name: t.Generic, Namespace: t.Namespace, Kwargs: kwargs}

	for _, ref := range t.Tested {
		tested, err := nodeid.Qualify(ref.Ref, pkg)
		if err != nil {
			return nil, fmt.Errorf("tested ref: %w", err)
		}
		n.TestedRefs = append(n.TestedRefs, node.TestedRef{Node: tested, Column: ref.Column})
		if !slices.Contains(n.DependsOn, tested) {
			n.DependsOn = append(n.DependsOn, tested)
		}
	}
	return n, nil
}

// resolveColumnTags copies the tags of each tested column onto the test's
// reference. Columns of unknown nodes are left untagged; the graph builder
// reports the dangling reference.
func resolveColumnTags(nodes []*node.Node) {
	byID := make(map[nodeid.ID]*node.Node, len(nodes))
	for _, n := range nodes {
		byID[n.UniqueID] = n
	}
	for _, n := range nodes {
		for i := range n.TestedRefs {
			ref := &n.TestedRefs[i]
			if ref.Column == "" {
				continue
			}
			target, ok := byID[ref.Node]
			if !ok {
				continue
			}
			if col, ok := target.Columns[ref.Column]; ok {
				ref.ColumnTags = slices.Clone(col.Tags)
			}
		}
	}
}

func identify(rt, pkg string, name ...string) (nodeid.ID, error) {
	id := nodeid.New(rt, pkg, name...)
	if _, err := nodeid.Parse(id.String()); err != nil {
		return "", err
	}
	return id, nil
}

func qualifyAll(refs []string, pkg string) ([]nodeid.ID, error) {
	var out []nodeid.ID
	for _, ref := range refs {
		id, err := nodeid.Qualify(ref, pkg)
		if err != nil {
			return nil, fmt.Errorf("depends_on: %w", err)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func columns(blocks []*Column) map[string]*node.Column {
	if len(blocks) == 0 {
		return nil
	}
	out := make(map[string]*node.Column, len(blocks))
	for _, c := range blocks {
		out[c.Name] = &node.Column{Name: c.Name, Tags: c.Tags}
	}
	return out
}

func packageOr(pkg, project string) string {
	if pkg != "" {
		return pkg
	}
	return project
}

func pathOr(p, file string) string {
	if p != "" {
		return path.Clean(p)
	}
	return file
}

// fqnOr derives the fqn from the package, the directories of p below its
// top-level directory, and the node's name parts.
func fqnOr(explicit []string, pkg, p string, name ...string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	fqn := []string{pkg}
	dirs := strings.Split(path.Dir(p), "/")
	if len(dirs) > 1 {
		fqn = append(fqn, dirs[1:]...)
	}
	return append(fqn, name...)
}
