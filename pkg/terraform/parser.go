package terraform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Dependency is one module reference extracted from configuration, carrying
// its normalized source descriptor.
type Dependency struct {
	Name        string
	Version     string // derived version, empty when only tracked by source
	Requirement string // raw version requirement string, if declared
	Source      *Source
	File        string
}

var (
	moduleBlockRe = regexp.MustCompile(`(?m)^\s*module\s+"([^"]+)"\s*\{`)
	sourceAttrRe  = regexp.MustCompile(`(?m)^\s*source\s*=\s*"([^"]+)"`)
	versionAttrRe = regexp.MustCompile(`(?m)^\s*version\s*=\s*"([^"]+)"`)
)

// ParseDir extracts module dependencies from every .tf file directly in dir,
// in filename order.
func (d *Decoder) ParseDir(dir string) ([]Dependency, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.tf"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(matches)

	var deps []Dependency
	for _, path := range matches {
		fileDeps, err := d.ParseFile(path)
		if err != nil {
			return nil, err
		}
		deps = append(deps, fileDeps...)
	}
	return deps, nil
}

// ParseFile extracts module dependencies from one configuration file.
func (d *Decoder) ParseFile(path string) ([]Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	deps, err := d.Parse(filepath.Base(path), string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deps, nil
}

// Parse scans configuration text for module blocks and normalizes each
// block's source. This is a narrow block scan, not an HCL parser: only the
// source and version attributes of top-level module blocks are read.
func (d *Decoder) Parse(file, content string) ([]Dependency, error) {
	var deps []Dependency
	for _, loc := range moduleBlockRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		body := blockBody(content, loc[1]-1)

		sm := sourceAttrRe.FindStringSubmatch(body)
		if sm == nil {
			// A module block without a source declares nothing to track.
			continue
		}
		src, err := d.DecodeSource(sm[1])
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}

		var requirement string
		if vm := versionAttrRe.FindStringSubmatch(body); vm != nil {
			requirement = vm[1]
		}

		deps = append(deps, Dependency{
			Name:        name,
			Version:     deriveVersion(src, requirement),
			Requirement: requirement,
			Source:      src,
			File:        file,
		})
	}
	return deps, nil
}

// deriveVersion picks a concrete version: VCS sources derive it from their
// ref tag, everything else uses a requirement that already names an exact
// version (starts with a digit).
func deriveVersion(src *Source, requirement string) string {
	switch src.Type {
	case TypeGit, TypeGitHub, TypeBitbucket, TypeMercurial:
		return VersionFromRef(src.Ref)
	default:
		if requirement != "" && requirement[0] >= '0' && requirement[0] <= '9' {
			return requirement
		}
		return ""
	}
}

// blockBody returns the text between the brace at open and its matching
// close brace, tracking nesting.
func blockBody(s string, open int) string {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : i]
			}
		}
	}
	return s[open+1:]
}

// Describe renders a one-line human-readable summary of the dependency.
func (dep Dependency) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", dep.Name, dep.Source.Type)
	if dep.Source.Type == TypeRegistry {
		fmt.Fprintf(&b, " %s/%s", dep.Source.RegistryHost, dep.Source.Module)
	} else if dep.Source.URL != "" {
		fmt.Fprintf(&b, " %s", dep.Source.URL)
	}
	if dep.Version != "" {
		fmt.Fprintf(&b, " @ %s", dep.Version)
	} else if dep.Requirement != "" {
		fmt.Fprintf(&b, " (requirement %s)", dep.Requirement)
	}
	return b.String()
}
