package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FieldRow is the editable representation of one field mapping. ID is a
// transient identity for UI tracking only; it never reaches the store.
type FieldRow struct {
	ID        string      `json:"id"`
	FieldName string      `json:"field_name"`
	Selector  string      `json:"selector"`
	Extract   ExtractKind `json:"extract"`
}

// NewFieldRow creates a row with a fresh transient identity. An empty
// extract defaults to text.
func NewFieldRow(fieldName, selector string, extract ExtractKind) FieldRow {
	if extract == "" {
		extract = ExtractText
	}
	return FieldRow{
		ID:        uuid.NewString(),
		FieldName: fieldName,
		Selector:  selector,
		Extract:   extract,
	}
}

// DuplicateFieldError reports two rows sharing the same non-empty field
// name at commit time.
type DuplicateFieldError struct {
	FieldName string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field name %q", e.FieldName)
}

// IncompleteFieldError reports a row missing its field name or selector at
// commit time.
type IncompleteFieldError struct {
	FieldName string
}

func (e *IncompleteFieldError) Error() string {
	if e.FieldName == "" {
		return "field row is missing a field name"
	}
	return fmt.Sprintf("field %q is missing a selector", e.FieldName)
}

// RowsFromTable converts a field mapping table to its editable row
// sequence. Rows are ordered by field name so the result is deterministic.
func RowsFromTable(table FieldMappingTable) []FieldRow {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]FieldRow, 0, len(names))
	for _, name := range names {
		rule := table[name]
		rows = append(rows, NewFieldRow(name, rule.Selector, NormalizeExtract(string(rule.Extract))))
	}
	return rows
}

// TableFromRows converts an editable row sequence back into a field
// mapping table. It fails with *DuplicateFieldError when two rows share a
// non-empty field name and with *IncompleteFieldError when a row has an
// empty field name or selector.
func TableFromRows(rows []FieldRow) (FieldMappingTable, error) {
	table := make(FieldMappingTable, len(rows))
	for i := range rows {
		name := strings.TrimSpace(rows[i].FieldName)
		selector := strings.TrimSpace(rows[i].Selector)
		if name == "" {
			return nil, &IncompleteFieldError{}
		}
		if selector == "" {
			return nil, &IncompleteFieldError{FieldName: name}
		}
		if _, exists := table[name]; exists {
			return nil, &DuplicateFieldError{FieldName: name}
		}
		table[name] = FieldRule{
			Selector: selector,
			Extract:  NormalizeExtract(string(rows[i].Extract)),
		}
	}
	return table, nil
}
