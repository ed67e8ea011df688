package gomod

import (
	"golang.org/x/mod/modfile"
)

const (
	manifestName = "go.mod"
	lockfileName = "go.sum"
)

// ParseManifest parses go.mod text into its structured form. The strict
// parser is tried first; when it rejects the file, the lax parser gets a
// second chance (it tolerates unknown statements). Only when both fail is a
// ParseError raised, carrying both parsers' diagnostics.
func ParseManifest(path string, data []byte) (*modfile.File, error) {
	f, strictErr := modfile.Parse(path, data, nil)
	if strictErr == nil {
		return f, nil
	}
	f, laxErr := modfile.ParseLax(path, data, nil)
	if laxErr == nil {
		return f, nil
	}
	return nil, &ParseError{
		Path:        path,
		Diagnostics: strictErr.Error() + "\n" + laxErr.Error(),
	}
}
