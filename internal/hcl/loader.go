package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/dagselect/internal/config"
	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// root is the directory node paths are reported relative to.
	root string
}

// NewLoader creates a new HCL project loader. Node paths that are not set
// explicitly default to the manifest file's path relative to root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// decodedFile pairs a decoded file with its path relative to the root.
type decodedFile struct {
	path string
	root *fileRoot
}

// Load orchestrates the entire HCL loading process. It parses every .hcl
// file found under paths, then translates all blocks into a project.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	files := make([]decodedFile, 0, len(hclFiles))

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		files = append(files, decodedFile{path: l.relative(file), root: &root})
	}

	project, err := l.translate(ctx, files)
	if err != nil {
		return nil, err
	}
	project.Files = hclFiles

	counts := project.CountByType()
	logger.Debug("HCL loading complete.",
		"project", project.Name,
		"nodes", len(project.Nodes),
		"models", counts["model"],
		"tests", counts["test"],
		"sources", counts["source"],
	)
	return project, nil
}

func (l *Loader) relative(file string) string {
	if l.root == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(l.root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// findAllHCLFiles walks all given paths and returns a sorted list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				add(p)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	slices.Sort(allFiles)
	return allFiles, nil
}
