package dataapi

import "strings"

// DefaultAPIPath is the Data API path segment used when none is
// configured (spec.md 6.2).
const DefaultAPIPath = "api/json/v1"

// BuildURL assembles <endpoint>/<apiPath>[/<keyspace>[/<collectionOrTable>]].
func BuildURL(endpoint, apiPath, keyspace, collectionOrTable string) string {
	parts := []string{strings.TrimRight(endpoint, "/"), strings.Trim(apiPath, "/")}
	if keyspace != "" {
		parts = append(parts, keyspace)
		if collectionOrTable != "" {
			parts = append(parts, collectionOrTable)
		}
	}
	return strings.Join(parts, "/")
}
