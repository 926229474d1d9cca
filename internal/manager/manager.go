// Package manager maintains the operator's view of the mapping store: the
// full record list, client-side search and filtering, and the
// edit/delete/toggle workflow. Mutations go through the store first; local
// state is updated only from successful responses and left untouched on
// failure.
package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

// Store is the slice of the persistence gateway the manager needs.
type Store interface {
	Mappings(ctx context.Context) ([]mapping.MappingRecord, error)
	EditMapping(ctx context.Context, mappingName string, req *mapping.EditRequest) error
	DeleteMapping(ctx context.Context, mappingName string) error
	ToggleMapping(ctx context.Context, mappingName string) (bool, error)
}

// Confirmer gates destructive actions behind interactive confirmation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// ErrDeclined is returned when the operator declines a confirmation
// prompt. The store is never contacted in that case.
var ErrDeclined = errors.Newf("confirmation declined").
	Category(errors.CategoryCancellation).
	Component("manager").
	Build()

// EditedRecord carries the editable representation of one record: the
// mutable fields plus the field mappings as rows. Rows are converted to a
// table immediately before submission; conversion failures block the
// submission.
type EditedRecord struct {
	MappingName       string
	ContainerSelector string
	SourceID          int64
	Enabled           bool
	Rows              []mapping.FieldRow
}

// Manager holds the in-memory mapping list.
type Manager struct {
	store   Store
	confirm Confirmer

	records       []mapping.MappingRecord
	lastRefreshed time.Time
}

// NewManager creates a manager over the given store and confirmation gate.
func NewManager(store Store, confirm Confirmer) *Manager {
	return &Manager{store: store, confirm: confirm}
}

// Refresh reloads the full mapping list from the store. On failure the
// in-memory list is left unchanged.
func (m *Manager) Refresh(ctx context.Context) error {
	records, err := m.store.Mappings(ctx)
	if err != nil {
		return err
	}
	m.records = records
	m.lastRefreshed = time.Now()
	return nil
}

// Records returns a copy of the current mapping list.
func (m *Manager) Records() []mapping.MappingRecord {
	return append([]mapping.MappingRecord(nil), m.records...)
}

// LastRefreshed returns when the list was last loaded from the store.
func (m *Manager) LastRefreshed() time.Time {
	return m.lastRefreshed
}

// Filter applies the client-side search and source filters.
func (m *Manager) Filter(query, source string) []mapping.MappingRecord {
	return mapping.Filter(m.records, query, source)
}

// Stats returns status counts over the current list.
func (m *Manager) Stats() mapping.Stats {
	return mapping.Tally(m.records)
}

// SourceNames returns the distinct source names in the current list.
func (m *Manager) SourceNames() []string {
	return mapping.SourceNames(m.records)
}

// Record returns the record with the given mapping name.
func (m *Manager) Record(mappingName string) (*mapping.MappingRecord, error) {
	for i := range m.records {
		if m.records[i].MappingName == mappingName {
			return &m.records[i], nil
		}
	}
	return nil, errors.Newf("mapping %q not found", mappingName).
		Category(errors.CategoryNotFound).
		Component("manager").
		Context("mapping_name", mappingName).
		Build()
}

// Rows returns a record's field mappings as editable rows.
func (m *Manager) Rows(mappingName string) ([]mapping.FieldRow, error) {
	record, err := m.Record(mappingName)
	if err != nil {
		return nil, err
	}
	return mapping.RowsFromTable(record.FieldMappings), nil
}

// Delete removes a record permanently after interactive confirmation
// naming it. The local list is updated only once the store confirms.
func (m *Manager) Delete(ctx context.Context, mappingName string) error {
	if _, err := m.Record(mappingName); err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete mapping %q? This cannot be undone.", mappingName)
	if !m.confirm.Confirm(prompt) {
		return ErrDeclined
	}

	if err := m.store.DeleteMapping(ctx, mappingName); err != nil {
		return err
	}

	for i := range m.records {
		if m.records[i].MappingName == mappingName {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	return nil
}

// Toggle flips a record's enabled flag server-side and adopts the value
// the store actually persisted, never an optimistic local flip.
func (m *Manager) Toggle(ctx context.Context, mappingName string) (bool, error) {
	record, err := m.Record(mappingName)
	if err != nil {
		return false, err
	}

	enabled, err := m.store.ToggleMapping(ctx, mappingName)
	if err != nil {
		return false, err
	}

	record.Enabled = mapping.BoolPtr(enabled)
	return enabled, nil
}

// Edit submits a full replacement of one record's mutable fields, keyed by
// its current mapping name. Row-to-table conversion failures block the
// submission; on success the local record is updated in place.
func (m *Manager) Edit(ctx context.Context, mappingName string, edited EditedRecord) error {
	record, err := m.Record(mappingName)
	if err != nil {
		return err
	}

	table, err := mapping.TableFromRows(edited.Rows)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryValidation).
			Component("manager").
			Context("mapping_name", mappingName).
			Build()
	}

	req := &mapping.EditRequest{
		MappingName:       edited.MappingName,
		ContainerSelector: edited.ContainerSelector,
		FieldMappings:     table,
		SourceID:          edited.SourceID,
		Enabled:           edited.Enabled,
	}
	if err := m.store.EditMapping(ctx, mappingName, req); err != nil {
		return err
	}

	record.MappingName = edited.MappingName
	record.ContainerSelector = mapping.ContainerSelector(edited.ContainerSelector)
	record.FieldMappings = table
	record.Enabled = mapping.BoolPtr(edited.Enabled)
	return nil
}
