// Package editor implements the mapping composition session: an explicit,
// serializable state struct mutated only through named operations, so the
// whole workflow is testable without any rendering surface.
package editor

import (
	"encoding/json"
	"strings"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

// housekeepingColumns are schema columns that never become field rows.
var housekeepingColumns = map[string]bool{
	"modified_at": true,
}

// FieldDraft is one editable field row of an entity draft.
type FieldDraft struct {
	Attribute string              `json:"attribute"`
	Selector  string              `json:"selector"`
	Extract   mapping.ExtractKind `json:"extract"`
}

// EntityDraft is the in-progress mapping for one entity while composing.
type EntityDraft struct {
	EntityName        string       `json:"entity_name"`
	Enabled           bool         `json:"enabled"`
	ContainerSelector string       `json:"container_selector"`
	Fields            []FieldDraft `json:"fields"`
}

// Session is one mapping composition session. The zero value is unusable;
// construct with NewSession and seed with LoadCatalog.
type Session struct {
	sourceName string
	url        string

	sources  []mapping.Source
	order    []string                // entity order as supplied by the schema list
	drafts   map[string]*EntityDraft // keyed by entity name
	selected []string                // selection set, in toggle order
}

// NewSession creates an empty composition session.
func NewSession() *Session {
	return &Session{drafts: make(map[string]*EntityDraft)}
}

// LoadCatalog seeds one draft per entity schema and stores the source list
// for binding. Reloading reseeds every draft and clears the selection.
func (s *Session) LoadCatalog(schemas []mapping.EntitySchema, sources []mapping.Source) {
	s.sources = append([]mapping.Source(nil), sources...)
	s.order = s.order[:0]
	s.drafts = make(map[string]*EntityDraft, len(schemas))
	s.selected = nil

	for i := range schemas {
		schema := &schemas[i]
		draft := &EntityDraft{
			EntityName: schema.Name,
			Enabled:    true,
		}
		for _, col := range schema.Columns {
			if mapping.IsPrimaryKeyField(col) || housekeepingColumns[strings.ToLower(col)] {
				continue
			}
			draft.Fields = append(draft.Fields, FieldDraft{
				Attribute: col,
				Extract:   mapping.ExtractText,
			})
		}
		s.order = append(s.order, schema.Name)
		s.drafts[schema.Name] = draft
	}
}

// Entities returns the entity names available in this session, in schema
// list order.
func (s *Session) Entities() []string {
	return append([]string(nil), s.order...)
}

// Sources returns the loaded source list.
func (s *Session) Sources() []mapping.Source {
	return append([]mapping.Source(nil), s.sources...)
}

// SourceName returns the current source name.
func (s *Session) SourceName() string { return s.sourceName }

// URL returns the current source URL.
func (s *Session) URL() string { return s.url }

// SetSourceName sets the source name as free text.
func (s *Session) SetSourceName(name string) { s.sourceName = name }

// SetURL sets the source URL as free text.
func (s *Session) SetURL(url string) { s.url = url }

// UseSource binds an existing source, replacing both the source name and
// the URL with that source's values.
func (s *Session) UseSource(source mapping.Source) {
	s.sourceName = source.Name
	s.url = source.URL
}

func (s *Session) draft(entity string) (*EntityDraft, error) {
	draft, ok := s.drafts[entity]
	if !ok {
		return nil, errors.Newf("unknown entity %q", entity).
			Category(errors.CategoryNotFound).
			Component("editor").
			Context("entity_name", entity).
			Build()
	}
	return draft, nil
}

// ToggleSelection flips the entity's membership in the selection set. Only
// selected entities are included on save.
func (s *Session) ToggleSelection(entity string) error {
	if _, err := s.draft(entity); err != nil {
		return err
	}
	for i, name := range s.selected {
		if name == entity {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return nil
		}
	}
	s.selected = append(s.selected, entity)
	return nil
}

// IsSelected reports whether the entity is in the selection set.
func (s *Session) IsSelected(entity string) bool {
	for _, name := range s.selected {
		if name == entity {
			return true
		}
	}
	return false
}

// Selected returns the selection set in toggle order.
func (s *Session) Selected() []string {
	return append([]string(nil), s.selected...)
}

// SetSelector updates one (entity, attribute) pair's selector. All other
// rows are unaffected.
func (s *Session) SetSelector(entity, attribute, selector string) error {
	return s.updateField(entity, attribute, func(f *FieldDraft) {
		f.Selector = selector
	})
}

// SetExtract updates one (entity, attribute) pair's extraction kind. An
// empty value normalizes to text.
func (s *Session) SetExtract(entity, attribute string, extract string) error {
	return s.updateField(entity, attribute, func(f *FieldDraft) {
		f.Extract = mapping.NormalizeExtract(extract)
	})
}

func (s *Session) updateField(entity, attribute string, apply func(*FieldDraft)) error {
	draft, err := s.draft(entity)
	if err != nil {
		return err
	}
	for i := range draft.Fields {
		if draft.Fields[i].Attribute == attribute {
			apply(&draft.Fields[i])
			return nil
		}
	}
	return errors.Newf("entity %q has no field %q", entity, attribute).
		Category(errors.CategoryNotFound).
		Component("editor").
		Context("entity_name", entity).
		Context("attribute", attribute).
		Build()
}

// SetContainerSelector sets the entity's optional container selector.
func (s *Session) SetContainerSelector(entity, selector string) error {
	draft, err := s.draft(entity)
	if err != nil {
		return err
	}
	draft.ContainerSelector = selector
	return nil
}

// ToggleEntity flips one entity draft's enabled flag without touching its
// field rows.
func (s *Session) ToggleEntity(entity string) error {
	draft, err := s.draft(entity)
	if err != nil {
		return err
	}
	draft.Enabled = !draft.Enabled
	return nil
}

// Draft returns a deep copy of one entity's draft for inspection.
func (s *Session) Draft(entity string) (EntityDraft, error) {
	draft, err := s.draft(entity)
	if err != nil {
		return EntityDraft{}, err
	}
	snapshot := *draft
	snapshot.Fields = append([]FieldDraft(nil), draft.Fields...)
	return snapshot, nil
}

// Review renders one entity's draft as indented JSON for operator review.
func (s *Session) Review(entity string) (string, error) {
	snapshot, err := s.Draft(entity)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BuildSaveRequest validates the session and assembles the save payload.
// Each selected entity contributes an entry even when it has no usable
// field rows; such a record simply resolves to Broken later, which is a
// visible state, not a blocked one. The primary key attribute is always
// filtered out.
func (s *Session) BuildSaveRequest() (*mapping.SaveRequest, error) {
	sourceName := strings.TrimSpace(s.sourceName)
	url := strings.TrimSpace(s.url)
	if sourceName == "" || url == "" {
		return nil, errors.Newf("source and url are required").
			Category(errors.CategoryValidation).
			Component("editor").
			Build()
	}

	req := &mapping.SaveRequest{
		Source:         sourceName,
		URL:            url,
		EntityMappings: make([]mapping.EntityMappingEntry, 0, len(s.selected)),
	}

	for _, entity := range s.selected {
		draft := s.drafts[entity]
		fields := make(mapping.FieldMappingTable, len(draft.Fields))
		for i := range draft.Fields {
			field := &draft.Fields[i]
			if mapping.IsPrimaryKeyField(field.Attribute) {
				continue
			}
			fields[field.Attribute] = mapping.FieldRule{
				Selector: field.Selector,
				Extract:  mapping.NormalizeExtract(string(field.Extract)),
			}
		}
		req.EntityMappings = append(req.EntityMappings, mapping.EntityMappingEntry{
			EntityName:        entity,
			ContainerSelector: mapping.ContainerSelector(draft.ContainerSelector),
			FieldMappings:     fields,
			Enabled:           draft.Enabled,
		})
	}

	return req, nil
}
