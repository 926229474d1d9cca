package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(enabled *bool, fields FieldMappingTable) MappingRecord {
	return MappingRecord{
		MappingName:   "companies-acme",
		EntityName:    "company",
		SourceName:    "Acme",
		FieldMappings: fields,
		Enabled:       enabled,
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	withFields := FieldMappingTable{"name": {Selector: "h3.title", Extract: ExtractText}}

	tests := []struct {
		name   string
		record MappingRecord
		want   Status
	}{
		{"enabled_with_fields", record(BoolPtr(true), withFields), StatusActive},
		{"enabled_absent_with_fields", record(nil, withFields), StatusActive},
		{"enabled_empty_fields", record(BoolPtr(true), FieldMappingTable{}), StatusBroken},
		{"enabled_nil_fields", record(nil, nil), StatusBroken},
		// Disabled dominates broken: a disabled mapping is never checked for completeness
		{"disabled_with_fields", record(BoolPtr(false), withFields), StatusDisabled},
		{"disabled_empty_fields", record(BoolPtr(false), nil), StatusDisabled},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(&tt.record))
		})
	}
}

func TestTally_Partitions(t *testing.T) {
	t.Parallel()

	withFields := FieldMappingTable{"name": {Selector: "h1", Extract: ExtractText}}
	records := []MappingRecord{
		record(nil, withFields),
		record(BoolPtr(true), withFields),
		record(BoolPtr(false), withFields),
		record(BoolPtr(false), nil),
		record(BoolPtr(true), FieldMappingTable{}),
		record(nil, nil),
	}

	stats := Tally(records)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 2, stats.Disabled)
	assert.Equal(t, 2, stats.Broken)
	assert.Equal(t, stats.Total, stats.Active+stats.Disabled+stats.Broken)
}

func TestTally_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Stats{}, Tally(nil))
}
