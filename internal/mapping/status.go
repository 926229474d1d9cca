package mapping

// Status is a derived, non-persisted classification of a mapping record,
// used for display and filtering only.
type Status string

const (
	StatusActive   Status = "Active"
	StatusDisabled Status = "Disabled"
	StatusBroken   Status = "Broken"
)

// Resolve derives a record's lifecycle status. Disabled wins over broken:
// a disabled mapping is never evaluated for completeness.
func Resolve(r *MappingRecord) Status {
	if !r.IsEnabled() {
		return StatusDisabled
	}
	if len(r.FieldMappings) == 0 {
		return StatusBroken
	}
	return StatusActive
}

// Stats counts mapping records by derived status.
type Stats struct {
	Total    int
	Active   int
	Disabled int
	Broken   int
}

// Tally computes status counts for a mapping list. Every record lands in
// exactly one bucket, so Active+Disabled+Broken always equals Total.
func Tally(records []MappingRecord) Stats {
	stats := Stats{Total: len(records)}
	for i := range records {
		switch Resolve(&records[i]) {
		case StatusActive:
			stats.Active++
		case StatusDisabled:
			stats.Disabled++
		case StatusBroken:
			stats.Broken++
		}
	}
	return stats
}
