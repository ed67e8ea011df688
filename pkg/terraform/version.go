package terraform

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// refVersionRe matches version tags, with or without the conventional v
// prefix.
var refVersionRe = regexp.MustCompile(`^v?(\d+\.\d+(?:\.\d+)*)$`)

// VersionFromRef derives a semantic version from a git ref. Refs that are
// not version tags (branch names, commit hashes) yield the empty string; the
// dependency stays tracked by source identity alone.
func VersionFromRef(ref string) string {
	m := refVersionRe.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return ""
	}
	return v.String()
}
