package terraform

import (
	"net/url"
	"regexp"
	"strings"
)

// sshShorthandRe matches SSH-style addresses like git@github.com:owner/repo.
var sshShorthandRe = regexp.MustCompile(`^(?:[\w.-]+@)([^/:]+):(.+)$`)

// parseGitLike normalizes a VCS source: the git:: marker is stripped, SSH
// shorthand becomes an explicit host/path pair, and ref/branch query
// parameters are extracted.
func parseGitLike(raw string, typ SourceType) (*Source, error) {
	s := strings.TrimPrefix(raw, "git::")

	ref := queryParam(s, "ref")
	branch := queryParam(s, "branch")

	head, _ := splitSubPath(s)
	head = stripQuery(head)

	return &Source{
		Type:   typ,
		URL:    normalizeSSH(head),
		Ref:    ref,
		Branch: branch,
	}, nil
}

// splitSubPath separates a source address from its module sub-path at the
// first double slash not preceded by a colon, so scheme separators like
// "https://" survive intact.
func splitSubPath(s string) (head, sub string) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '/' && s[i+1] == '/' && (i == 0 || s[i-1] != ':') {
			return s[:i], s[i+2:]
		}
	}
	return s, ""
}

// queryParam extracts a single query parameter from wherever the query
// string appears in the source (it may trail the sub-path).
func queryParam(s, key string) string {
	i := strings.LastIndexByte(s, '?')
	if i < 0 {
		return ""
	}
	values, err := url.ParseQuery(s[i+1:])
	if err != nil {
		return ""
	}
	return values.Get(key)
}

func stripQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

// normalizeSSH rewrites git@host:path shorthand to host/path.
func normalizeSSH(s string) string {
	if m := sshShorthandRe.FindStringSubmatch(s); m != nil {
		return m[1] + "/" + m[2]
	}
	return s
}
