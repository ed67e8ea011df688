// Package terraform normalizes the heterogeneous module source syntaxes
// found in Terraform configuration into uniform source descriptors:
// registry, VCS, HTTP-archive, object-storage, and local-path references.
package terraform

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SourceType identifies the syntax family a module source was written in.
type SourceType string

const (
	TypePath        SourceType = "path"
	TypeHTTPArchive SourceType = "http_archive"
	TypeMercurial   SourceType = "mercurial"
	TypeS3          SourceType = "s3"
	TypeGitHub      SourceType = "github"
	TypeBitbucket   SourceType = "bitbucket"
	TypeGit         SourceType = "git"
	TypeRegistry    SourceType = "registry"
)

// Source is a normalized module source descriptor. Exactly one of URL or the
// RegistryHost/Module pair is populated, depending on Type.
type Source struct {
	Type SourceType

	URL string // non-registry sources

	RegistryHost string // registry sources
	Module       string // registry module identifier ("namespace/name/provider")

	Ref    string // git-family ref query parameter, if any
	Branch string // git-family branch query parameter, if any

	// Proxy holds the originally referenced URL when the real source was
	// discovered through a terraform-get redirect.
	Proxy string
}

// InvalidRegistrySourceError means a source looked like a registry module
// identifier but had the wrong number of path segments.
type InvalidRegistrySourceError struct {
	Source string
}

func (e *InvalidRegistrySourceError) Error() string {
	return fmt.Sprintf("invalid registry source %q", e.Source)
}

// UnknownSourceError means the source string matched none of the recognized
// syntaxes. Classification is closed and ordered; this is not a general URL
// parser.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("could not determine source type of %q", e.Source)
}

// Decoder classifies raw source strings. The HTTP client is only used for
// terraform-get redirect discovery on plain HTTP(S) sources.
type Decoder struct {
	client *http.Client
}

func NewDecoder() *Decoder {
	return &Decoder{client: &http.Client{Timeout: 10 * time.Second}}
}

// DecodeSource classifies one raw module source string into exactly one
// descriptor, testing syntaxes in fixed order. Unrecognized combinations
// return UnknownSourceError.
func (d *Decoder) DecodeSource(raw string) (*Source, error) {
	switch {
	case strings.HasPrefix(raw, "."):
		return &Source{Type: TypePath, URL: raw}, nil

	case strings.HasPrefix(raw, "github.com"):
		return parseGitLike(raw, TypeGitHub)

	case strings.HasPrefix(raw, "bitbucket.org"):
		return parseGitLike(raw, TypeBitbucket)

	case strings.HasPrefix(raw, "git::"), strings.HasPrefix(raw, "git@"):
		return parseGitLike(raw, TypeGit)

	case strings.HasPrefix(raw, "hg::"):
		return parseGitLike(strings.TrimPrefix(raw, "hg::"), TypeMercurial)

	case strings.HasPrefix(raw, "s3::"):
		return &Source{Type: TypeS3, URL: strings.TrimPrefix(raw, "s3::")}, nil

	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return d.parseHTTPSource(raw)

	case !strings.Contains(firstSegment(raw), ":"):
		return parseRegistrySource(raw)

	default:
		return nil, &UnknownSourceError{Source: raw}
	}
}

func firstSegment(raw string) string {
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// archiveExtensions are the archive formats Terraform fetches directly.
var archiveExtensions = []string{
	".zip", ".tbz2", ".tgz", ".txz", ".tar.bz2", ".tar.gz", ".tar.xz",
}

// parseHTTPSource resolves a plain HTTP(S) source. Recognized archives are
// used as-is; anything else must reveal its real source through the
// terraform-get redirect protocol.
func (d *Decoder) parseHTTPSource(raw string) (*Source, error) {
	head, _ := splitSubPath(raw)
	u, err := url.Parse(head)
	if err != nil {
		return nil, &UnknownSourceError{Source: raw}
	}

	if isArchive(u.Path) || u.Query().Get("archive") != "" {
		return &Source{Type: TypeHTTPArchive, URL: head}, nil
	}

	real, err := d.discoverGetURL(head)
	if err != nil {
		return nil, err
	}
	if real == "" {
		return nil, &UnknownSourceError{Source: raw}
	}
	src, err := d.DecodeSource(real)
	if err != nil {
		return nil, err
	}
	// Keep the referenced URL for provenance; the discovered source is the
	// one that resolves.
	src.Proxy = head
	return src, nil
}

func isArchive(path string) bool {
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
