// Package mapping defines the entity-source field mapping data model: the
// persisted mapping record, the per-field extraction rules, the editable
// row representation, and the derived lifecycle status.
package mapping

import "strings"

// ExtractKind describes how a field's value is pulled from matched page
// content.
type ExtractKind string

const (
	ExtractText     ExtractKind = "text"
	ExtractHref     ExtractKind = "href"
	ExtractSrc      ExtractKind = "src"
	ExtractHTML     ExtractKind = "html"
	ExtractDatetime ExtractKind = "datetime"
	ExtractValue    ExtractKind = "value"
	ExtractTitle    ExtractKind = "title"
	ExtractAlt      ExtractKind = "alt"
)

// ExtractKinds lists every supported extraction kind in display order.
var ExtractKinds = []ExtractKind{
	ExtractText,
	ExtractHref,
	ExtractSrc,
	ExtractHTML,
	ExtractDatetime,
	ExtractValue,
	ExtractTitle,
	ExtractAlt,
}

// Valid reports whether k is one of the supported extraction kinds.
func (k ExtractKind) Valid() bool {
	for _, known := range ExtractKinds {
		if k == known {
			return true
		}
	}
	return false
}

// NormalizeExtract maps a raw extract value to an ExtractKind. Absent or
// empty values normalize to text; everything else is lower-cased and
// trimmed.
func NormalizeExtract(raw string) ExtractKind {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return ExtractText
	}
	return ExtractKind(v)
}

// FieldRule is one field's extraction rule: a CSS-like selector plus the
// extraction kind.
type FieldRule struct {
	Selector string      `json:"selector"`
	Extract  ExtractKind `json:"extract"`
}

// FieldMappingTable maps field names to their extraction rules. The key
// "id" never appears: the primary key is never itself mapped.
type FieldMappingTable map[string]FieldRule

// primaryKeyColumn is excluded from field mappings everywhere,
// case-insensitively.
const primaryKeyColumn = "id"

// IsPrimaryKeyField reports whether name is the primary key column.
func IsPrimaryKeyField(name string) bool {
	return strings.EqualFold(name, primaryKeyColumn)
}

// EntitySchema is a named record type with an ordered list of column
// names, supplied by the backend and read-only here.
type EntitySchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Source is an existing scraping source, used to prefill a mapping's
// source fields.
type Source struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MappingRecord is one persisted binding of an entity schema to a source
// URL. Enabled is a pointer because the backend may omit it; an absent
// value means enabled.
type MappingRecord struct {
	ID                int64             `json:"id"`
	MappingName       string            `json:"mapping_name"`
	EntityName        string            `json:"entity_name"`
	SourceID          int64             `json:"source_id"`
	SourceName        string            `json:"source_name"`
	ContainerSelector *string           `json:"container_selector"`
	FieldMappings     FieldMappingTable `json:"field_mappings"`
	Enabled           *bool             `json:"enabled,omitempty"`
	CreatedAt         string            `json:"created_at,omitempty"`
}

// IsEnabled reports the record's enabled flag, treating an absent value as
// enabled.
func (r *MappingRecord) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Container returns the container selector or the empty string when unset.
func (r *MappingRecord) Container() string {
	if r.ContainerSelector == nil {
		return ""
	}
	return *r.ContainerSelector
}

// ContainerSelector converts an editable selector value to its nullable
// wire form: empty becomes null.
func ContainerSelector(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BoolPtr returns a pointer to b, for populating optional wire fields.
func BoolPtr(b bool) *bool {
	return &b
}
