package fetcher

import "strings"

// LibraryIdentity is this library's own "<name>/<version>" link,
// always the last entry of the User-Agent header.
const LibraryIdentity = "astra-data-go/0.1.0"

// BuildUserAgent composes "<c1>/<v1> <c2>/<v2> ... astra-data-go/<ver>"
// per spec.md 4.4.
func BuildUserAgent(callerFragment string) string {
	if callerFragment == "" {
		return LibraryIdentity
	}
	return strings.TrimSpace(callerFragment) + " " + LibraryIdentity
}
