package gomod

import (
	"regexp"
	"strings"
)

var goDirectiveRe = regexp.MustCompile(`(?m)^go \S+$`)

// restoreGoDirective reverts any change the resolver made to the manifest's
// go directive so an unrelated tool side effect is not reported as a
// dependency change. Only the first matching line is considered; go.mod
// grammar permits at most one.
//
// Original had a directive, updated differs: the original line wins.
// Original had none, updated gained one: the line is removed entirely.
// Updated lost the directive the original had: it is re-inserted after the
// module statement.
func restoreGoDirective(orig, updated string) string {
	origLine := goDirectiveRe.FindString(orig)
	newLine := goDirectiveRe.FindString(updated)

	switch {
	case origLine == newLine:
		return updated

	case origLine == "":
		loc := goDirectiveRe.FindStringIndex(updated)
		end := loc[1]
		if end < len(updated) && updated[end] == '\n' {
			end++
			// Drop a blank line the directive brought with it.
			if end < len(updated) && updated[end] == '\n' {
				end++
			}
		}
		return updated[:loc[0]] + updated[end:]

	case newLine == "":
		return insertAfterModule(updated, origLine)

	default:
		return strings.Replace(updated, newLine, origLine, 1)
	}
}

// insertAfterModule places line after the module statement's line, or at the
// end when no module statement exists.
func insertAfterModule(body, line string) string {
	idx := strings.Index(body, "module ")
	if idx < 0 {
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return body + line + "\n"
	}
	eol := strings.IndexByte(body[idx:], '\n')
	if eol < 0 {
		return body + "\n\n" + line + "\n"
	}
	pos := idx + eol + 1
	return body[:pos] + "\n" + line + "\n" + body[pos:]
}
