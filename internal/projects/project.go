// Package projects maps result directories to configured projects and holds
// the notification messages pending for them.
package projects

import (
	"sort"
	"strings"
)

// Project is a top-level source tree.
type Project struct {
	Name string `yaml:"name"`
	// Path is the project root relative to the source root.
	Path string `yaml:"path"`
	// TabSize overrides the global tab size when positive.
	TabSize int `yaml:"tab_size"`
}

// Registry looks projects up by directory.
type Registry struct {
	projects []Project // longest path first
}

// NewRegistry builds a registry from ps.
func NewRegistry(ps []Project) *Registry {
	r := &Registry{}
	for _, p := range ps {
		p.Path = strings.Trim(p.Path, "/")
		r.projects = append(r.projects, p)
	}
	sort.SliceStable(r.projects, func(i, j int) bool {
		return len(r.projects[i].Path) > len(r.projects[j].Path)
	})
	return r
}

// ForDir returns the project containing dir, preferring the most specific.
func (r *Registry) ForDir(dir string) (Project, bool) {
	if r == nil {
		return Project{}, false
	}
	dir = strings.Trim(dir, "/")
	for _, p := range r.projects {
		if dir == p.Path || strings.HasPrefix(dir, p.Path+"/") {
			return p, true
		}
	}
	return Project{}, false
}
