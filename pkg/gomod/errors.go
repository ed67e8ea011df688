package gomod

import "fmt"

// NotResolvableError means the external tooling could not compute a
// consistent dependency graph for the manifest as written (checksum or
// version-format mismatches).
type NotResolvableError struct {
	Message string
}

func (e *NotResolvableError) Error() string {
	return "go.mod is not resolvable: " + e.Message
}

// RepoNotResolvableError means a repository backing a required module could
// not be reached, found, or checked out. Private is set when the failing host
// matches a supplied credential, pointing at an authentication problem rather
// than a missing repository.
type RepoNotResolvableError struct {
	Message string
	Private bool
	Host    string
}

func (e *RepoNotResolvableError) Error() string {
	if e.Private {
		return fmt.Sprintf("cannot access private repository on %s: %s", e.Host, e.Message)
	}
	return "repository is not resolvable: " + e.Message
}

// PathMismatchError means a module's declared path differs from the path it
// was required as.
type PathMismatchError struct {
	GoModPath string // manifest that triggered the mismatch
	Declared  string // path the module declares for itself
	Required  string // path the manifest required it as
}

func (e *PathMismatchError) Error() string {
	return fmt.Sprintf("%s: module declares its path as %s but was required as %s",
		e.GoModPath, e.Declared, e.Required)
}

// OutOfDiskError means the working tree ran out of space or hit an I/O error
// while resolving.
type OutOfDiskError struct {
	Message string
}

func (e *OutOfDiskError) Error() string {
	return "out of disk: " + e.Message
}

// AuthRequiredError means a fetch failed for want of credentials to a
// specific URL.
type AuthRequiredError struct {
	URL string
}

func (e *AuthRequiredError) Error() string {
	return "authentication required for " + e.URL
}

// ToolError is the fallback classification: the tool failed for a reason no
// specific pattern recognizes. Message holds the tail of stderr.
type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return "go tooling failed: " + e.Message
}

// ParseError means go.mod could not be parsed by either the strict or the
// lax parser. Diagnostics concatenates both parsers' output.
type ParseError struct {
	Path        string
	Diagnostics string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s is not parseable: %s", e.Path, e.Diagnostics)
}
