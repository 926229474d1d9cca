package mapping

import "strings"

// FilterAllSources selects records from every source when passed as the
// source argument to Filter.
const FilterAllSources = "all"

// unknownSourceName stands in for records whose source name is empty so
// they remain addressable in source filters.
const unknownSourceName = "unknown"

// DisplaySourceName returns the record's source name, or "unknown" when it
// is empty.
func DisplaySourceName(r *MappingRecord) string {
	if r.SourceName == "" {
		return unknownSourceName
	}
	return r.SourceName
}

// MatchesSearch reports whether the record matches a free-text query
// against its mapping, entity, or source name, case-insensitively. An
// empty query matches everything.
func MatchesSearch(r *MappingRecord, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.MappingName), q) ||
		strings.Contains(strings.ToLower(r.EntityName), q) ||
		strings.Contains(strings.ToLower(r.SourceName), q)
}

// Filter applies the client-side search and source filters over a full
// mapping list. source is an exact source name, or FilterAllSources (or
// empty) for no source filtering.
func Filter(records []MappingRecord, query, source string) []MappingRecord {
	filtered := make([]MappingRecord, 0, len(records))
	for i := range records {
		if !MatchesSearch(&records[i], query) {
			continue
		}
		if source != "" && source != FilterAllSources && DisplaySourceName(&records[i]) != source {
			continue
		}
		filtered = append(filtered, records[i])
	}
	return filtered
}

// SourceNames returns the distinct source names present in the list, in
// first-seen order, for building a source filter.
func SourceNames(records []MappingRecord) []string {
	seen := make(map[string]bool, len(records))
	names := make([]string, 0, len(records))
	for i := range records {
		name := DisplaySourceName(&records[i])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
