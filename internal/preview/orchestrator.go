// Package preview validates in-progress mappings and requests sample
// extractions from the backend, and maintains the debounced raw-page
// preview for the current source URL.
package preview

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/autoextract"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/editor"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/logging"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
)

func init() {
	serviceLevelVar.Set(slog.LevelDebug)
	logger, _ = logging.ForService("preview", serviceLevelVar)
}

// MappingPreviewer runs a sample extraction against the backend.
type MappingPreviewer interface {
	PreviewMapping(ctx context.Context, req *mapping.PreviewRequest) (*mapping.PreviewResult, error)
}

// Orchestrator validates a draft and issues preview requests.
type Orchestrator struct {
	backend MappingPreviewer
}

// NewOrchestrator creates a preview orchestrator over the given backend.
func NewOrchestrator(backend MappingPreviewer) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// CandidateFields builds the preview field table from a draft's fields. A
// field qualifies when auto-extraction covers it for the given URL (the
// selector may then be empty) or when its selector is non-empty.
func CandidateFields(fields []editor.FieldDraft, pageURL string) mapping.FieldMappingTable {
	table := make(mapping.FieldMappingTable)
	for i := range fields {
		field := &fields[i]
		if mapping.IsPrimaryKeyField(field.Attribute) {
			continue
		}
		selector := strings.TrimSpace(field.Selector)
		if selector == "" && !autoextract.Applies(pageURL, field.Attribute) {
			continue
		}
		table[field.Attribute] = mapping.FieldRule{
			Selector: selector,
			Extract:  mapping.NormalizeExtract(string(field.Extract)),
		}
	}
	return table
}

// Preview validates the draft against the session's source fields and
// requests a sample extraction. Validation failures never reach the
// network; backend failure messages are propagated unchanged.
func (o *Orchestrator) Preview(ctx context.Context, draft editor.EntityDraft, sourceName, pageURL string) (*mapping.PreviewResult, error) {
	if strings.TrimSpace(sourceName) == "" || strings.TrimSpace(pageURL) == "" {
		return nil, errors.Newf("source/url required").
			Category(errors.CategoryValidation).
			Component("preview").
			Build()
	}

	fields := CandidateFields(draft.Fields, pageURL)
	if len(fields) == 0 {
		return nil, errors.Newf("at least one field mapping required").
			Category(errors.CategoryValidation).
			Component("preview").
			Context("entity_name", draft.EntityName).
			Build()
	}

	logger.Debug("requesting mapping preview",
		"entity_name", draft.EntityName,
		"url", pageURL,
		"fields", len(fields))

	return o.backend.PreviewMapping(ctx, &mapping.PreviewRequest{
		URL:               pageURL,
		EntityName:        draft.EntityName,
		ContainerSelector: mapping.ContainerSelector(draft.ContainerSelector),
		FieldMappings:     fields,
	})
}
