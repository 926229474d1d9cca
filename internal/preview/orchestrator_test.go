package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/editor"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

// fakeBackend records preview requests and returns a canned result.
type fakeBackend struct {
	calls  int
	lastReq *mapping.PreviewRequest
	result *mapping.PreviewResult
	err    error
}

func (f *fakeBackend) PreviewMapping(_ context.Context, req *mapping.PreviewRequest) (*mapping.PreviewResult, error) {
	f.calls++
	f.lastReq = req
	return f.result, f.err
}

func draftWith(fields ...editor.FieldDraft) editor.EntityDraft {
	return editor.EntityDraft{
		EntityName: "company",
		Enabled:    true,
		Fields:     fields,
	}
}

func TestCandidateFields(t *testing.T) {
	t.Parallel()

	fields := []editor.FieldDraft{
		{Attribute: "id", Selector: ".id"},                 // primary key is never mapped
		{Attribute: "name", Selector: "h3.title"},          // explicit selector
		{Attribute: "website", Selector: "   "},            // empty selector, not auto-extractable here
		{Attribute: "phone", Selector: "", Extract: ""},    // empty selector
	}

	table := CandidateFields(fields, "https://example.com")
	assert.Equal(t, mapping.FieldMappingTable{
		"name": {Selector: "h3.title", Extract: mapping.ExtractText},
	}, table)
}

func TestCandidateFields_GoogleMapsAutoExtraction(t *testing.T) {
	t.Parallel()

	fields := []editor.FieldDraft{
		{Attribute: "business_name", Selector: ""}, // auto-extractable on a maps source
		{Attribute: "unrelated_field", Selector: ""},
	}

	table := CandidateFields(fields, "https://www.google.com/maps/search/cafes")
	assert.Equal(t, mapping.FieldMappingTable{
		"business_name": {Selector: "", Extract: mapping.ExtractText},
	}, table)
}

func TestPreview_RequiresSourceAndURL(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	o := NewOrchestrator(backend)

	draft := draftWith(editor.FieldDraft{Attribute: "name", Selector: "h1"})

	_, err := o.Preview(context.Background(), draft, "", "https://acme.test")
	require.Error(t, err)
	assert.True(t, errors.Validation(err))

	_, err = o.Preview(context.Background(), draft, "Acme", "  ")
	require.Error(t, err)
	assert.True(t, errors.Validation(err))

	// Validation failures never reach the network
	assert.Zero(t, backend.calls)
}

func TestPreview_NoEligibleFields(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	o := NewOrchestrator(backend)

	// One field with an empty selector on a non-maps source
	draft := draftWith(editor.FieldDraft{Attribute: "name", Selector: ""})

	_, err := o.Preview(context.Background(), draft, "Acme", "https://acme.test")
	require.Error(t, err)
	assert.True(t, errors.Validation(err))
	assert.Contains(t, err.Error(), "at least one field mapping required")
	assert.Zero(t, backend.calls)
}

func TestPreview_Success(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		result: &mapping.PreviewResult{
			Rows:       []map[string]any{{"name": "Acme Oy"}},
			TotalItems: 17,
		},
	}
	o := NewOrchestrator(backend)

	draft := draftWith(editor.FieldDraft{Attribute: "name", Selector: "h3.title"})
	draft.ContainerSelector = ".listing"

	result, err := o.Preview(context.Background(), draft, "Acme", "https://acme.test")
	require.NoError(t, err)
	assert.Equal(t, 17, result.TotalItems)

	require.Equal(t, 1, backend.calls)
	req := backend.lastReq
	assert.Equal(t, "https://acme.test", req.URL)
	assert.Equal(t, "company", req.EntityName)
	require.NotNil(t, req.ContainerSelector)
	assert.Equal(t, ".listing", *req.ContainerSelector)
	assert.Equal(t, "h3.title", req.FieldMappings["name"].Selector)
}

func TestPreview_BackendFailurePropagated(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		err: errors.Newf("preview failed: selector matched nothing").
			Category(errors.CategoryNetwork).
			Build(),
	}
	o := NewOrchestrator(backend)

	draft := draftWith(editor.FieldDraft{Attribute: "name", Selector: "h1"})

	_, err := o.Preview(context.Background(), draft, "Acme", "https://acme.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector matched nothing")
	assert.False(t, errors.Validation(err))
}
