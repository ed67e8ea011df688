package gomod

import (
	"regexp"
	"strings"

	"github.com/depbump/depbump/pkg/config"
)

// Pattern tables for stderr classification. Order matters: groups are tested
// top to bottom and the first matching group wins, so more specific
// diagnoses must precede broader ones. Patterns are data, not control flow,
// so the taxonomy can be tested on its own.

// Manifest cannot be resolved as written.
var resolvabilityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`verifying .*: checksum mismatch`),
	regexp.MustCompile(`missing go\.sum entry`),
	regexp.MustCompile(`go\.mod has post-v\d+ module path`),
	regexp.MustCompile(`is not a valid semantic version`),
	regexp.MustCompile(`malformed module path`),
	regexp.MustCompile(`inconsistent vendoring`),
}

// A repository backing a module cannot be reached or does not serve the
// requested revision.
var repoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`repository '?\S+'? not found`),
	regexp.MustCompile(`unknown revision \S+`),
	regexp.MustCompile(`invalid pseudo-version`),
	regexp.MustCompile(`module \S+ found \(.*\), but does not contain package`),
	regexp.MustCompile(`cannot find module providing package`),
	regexp.MustCompile(`no matching versions for query`),
	regexp.MustCompile(`git (?:fetch|ls-remote) .*: exit status 128`),
	regexp.MustCompile(`dial tcp .*: (?:connection refused|i/o timeout|no such host)`),
}

// Declared module path differs from the required path. The first capture
// group is the declared path, the second the required path.
var pathMismatchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)module declares its path as: (\S+)\s+but was required as: (\S+)`),
	regexp.MustCompile(`has non-\S+ module path "([^"]+)" at .*required as ([^\s"]+)`),
}

var outOfDiskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`input/output error`),
	regexp.MustCompile(`no space left on device`),
}

// Authentication failures that name the URL being fetched. The capture group
// is the URL.
var authPatterns = []*regexp.Regexp{
	regexp.MustCompile(`could not read Username for '([^']+)'`),
	regexp.MustCompile(`Authentication failed for '([^']+)'`),
	regexp.MustCompile(`invalid username(?:/| or )password.*?(https?://\S+)`),
}

const fallbackLineCount = 10

// Classify maps stderr text from a failed tool invocation to exactly one
// typed error. dir is the working directory whose absolute path is stripped
// from the text before matching, so sandbox paths never leak into messages.
// Credentials are used only to distinguish private-host access failures.
func Classify(stderr, dir string, creds []config.Credential) error {
	msg := stripDir(stderr, dir)

	for _, re := range resolvabilityPatterns {
		if re.MatchString(msg) {
			return &NotResolvableError{Message: matchedLines(re, msg)}
		}
	}

	for _, re := range repoPatterns {
		if re.MatchString(msg) {
			return classifyRepoError(matchedLines(re, msg), creds)
		}
	}

	for _, re := range pathMismatchPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return &PathMismatchError{GoModPath: manifestName, Declared: m[1], Required: m[2]}
		}
	}

	for _, re := range outOfDiskPatterns {
		if re.MatchString(msg) {
			return &OutOfDiskError{Message: matchedLines(re, msg)}
		}
	}

	for _, re := range authPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return &AuthRequiredError{URL: m[1]}
		}
	}

	return &ToolError{Message: lastLines(msg, fallbackLineCount)}
}

// classifyRepoError distinguishes failures against hosts the caller holds
// credentials for: those point at authentication rather than absence.
func classifyRepoError(msg string, creds []config.Credential) error {
	for _, c := range creds {
		if c.Host != "" && strings.Contains(msg, c.Host) {
			return &RepoNotResolvableError{Message: msg, Private: true, Host: c.Host}
		}
	}
	return &RepoNotResolvableError{Message: msg}
}

// stripDir removes the working directory's absolute path from text.
func stripDir(text, dir string) string {
	if dir == "" {
		return text
	}
	text = strings.ReplaceAll(text, dir+"/", "")
	return strings.ReplaceAll(text, dir, "")
}

// matchedLines returns the lines of text that individually match re, joined
// by newlines. When the pattern only matches across lines, the whole-text
// match is returned instead.
func matchedLines(re *regexp.Regexp, text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if re.MatchString(line) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return strings.TrimSpace(re.FindString(text))
	}
	return strings.Join(lines, "\n")
}

// lastLines returns the final n non-empty-trimmed lines of text.
func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
