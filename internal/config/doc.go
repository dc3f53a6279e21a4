// Package config defines the format-agnostic project model and the Loader
// interface that produces it.
//
// The `config.Project` is the single source of truth for the graph and
// selection packages. Concrete loaders, such as the HCL manifest loader,
// are provided in separate packages.
package config
