package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

func testSchemas() []mapping.EntitySchema {
	return []mapping.EntitySchema{
		{Name: "company", Columns: []string{"id", "name", "website", "modified_at"}},
		{Name: "person", Columns: []string{"ID", "full_name", "phone"}},
	}
}

func testSources() []mapping.Source {
	return []mapping.Source{
		{ID: 1, Name: "Acme", URL: "https://acme.test"},
		{ID: 2, Name: "Maps", URL: "https://www.google.com/maps/search/cafes"},
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.LoadCatalog(testSchemas(), testSources())
	return s
}

func TestLoadCatalog_SeedsDrafts(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	assert.Equal(t, []string{"company", "person"}, s.Entities())

	draft, err := s.Draft("company")
	require.NoError(t, err)
	assert.True(t, draft.Enabled)
	assert.Empty(t, draft.ContainerSelector)

	// id and modified_at are never seeded as field rows
	require.Len(t, draft.Fields, 2)
	assert.Equal(t, "name", draft.Fields[0].Attribute)
	assert.Equal(t, "website", draft.Fields[1].Attribute)
	for _, f := range draft.Fields {
		assert.Empty(t, f.Selector)
		assert.Equal(t, mapping.ExtractText, f.Extract)
	}

	// primary key exclusion is case-insensitive
	person, err := s.Draft("person")
	require.NoError(t, err)
	require.Len(t, person.Fields, 2)
	assert.Equal(t, "full_name", person.Fields[0].Attribute)
}

func TestLoadCatalog_ReloadReseeds(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	require.NoError(t, s.ToggleSelection("company"))
	require.NoError(t, s.SetSelector("company", "name", "h1"))

	s.LoadCatalog(testSchemas(), testSources())

	assert.Empty(t, s.Selected())
	draft, err := s.Draft("company")
	require.NoError(t, err)
	assert.Empty(t, draft.Fields[0].Selector)
}

func TestToggleSelection(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	require.NoError(t, s.ToggleSelection("person"))
	require.NoError(t, s.ToggleSelection("company"))
	assert.Equal(t, []string{"person", "company"}, s.Selected())
	assert.True(t, s.IsSelected("person"))

	require.NoError(t, s.ToggleSelection("person"))
	assert.Equal(t, []string{"company"}, s.Selected())
	assert.False(t, s.IsSelected("person"))

	err := s.ToggleSelection("ghost")
	require.Error(t, err)
	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.CategoryNotFound, ee.Category)
}

func TestSetSelector_TouchesOnlyOneRow(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	before, err := s.Draft("company")
	require.NoError(t, err)

	require.NoError(t, s.SetSelector("company", "name", "h3.title"))

	after, err := s.Draft("company")
	require.NoError(t, err)
	assert.Equal(t, "h3.title", after.Fields[0].Selector)
	assert.Equal(t, before.Fields[1], after.Fields[1])

	// Other entities stay untouched
	person, err := s.Draft("person")
	require.NoError(t, err)
	for _, f := range person.Fields {
		assert.Empty(t, f.Selector)
	}
}

func TestSetExtract_Normalizes(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	require.NoError(t, s.SetExtract("company", "website", "HREF"))

	draft, err := s.Draft("company")
	require.NoError(t, err)
	assert.Equal(t, mapping.ExtractHref, draft.Fields[1].Extract)

	require.NoError(t, s.SetExtract("company", "website", ""))
	draft, err = s.Draft("company")
	require.NoError(t, err)
	assert.Equal(t, mapping.ExtractText, draft.Fields[1].Extract)

	assert.Error(t, s.SetExtract("company", "missing_attribute", "text"))
}

func TestToggleEntity(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	require.NoError(t, s.SetSelector("company", "name", "h1"))

	require.NoError(t, s.ToggleEntity("company"))
	draft, err := s.Draft("company")
	require.NoError(t, err)
	assert.False(t, draft.Enabled)
	// field rows are untouched by the enable toggle
	assert.Equal(t, "h1", draft.Fields[0].Selector)

	require.NoError(t, s.ToggleEntity("company"))
	draft, err = s.Draft("company")
	require.NoError(t, err)
	assert.True(t, draft.Enabled)
}

func TestUseSource(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	s.SetSourceName("manual")
	s.SetURL("https://manual.test")

	s.UseSource(testSources()[0])
	assert.Equal(t, "Acme", s.SourceName())
	assert.Equal(t, "https://acme.test", s.URL())
}

func TestBuildSaveRequest_RequiresSourceAndURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		url    string
	}{
		{"both_empty", "", ""},
		{"missing_url", "Acme", ""},
		{"missing_source", "", "https://acme.test"},
		{"whitespace_only", "   ", "  "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := loadedSession(t)
			s.SetSourceName(tt.source)
			s.SetURL(tt.url)
			_, err := s.BuildSaveRequest()
			require.Error(t, err)
			assert.True(t, errors.Validation(err))
		})
	}
}

func TestBuildSaveRequest_Payload(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.LoadCatalog([]mapping.EntitySchema{
		{Name: "company", Columns: []string{"id", "name"}},
	}, nil)
	s.SetSourceName("Acme")
	s.SetURL("https://acme.test")
	require.NoError(t, s.ToggleSelection("company"))
	require.NoError(t, s.SetSelector("company", "name", "h3.title"))

	req, err := s.BuildSaveRequest()
	require.NoError(t, err)

	assert.Equal(t, "Acme", req.Source)
	assert.Equal(t, "https://acme.test", req.URL)
	require.Len(t, req.EntityMappings, 1)

	entry := req.EntityMappings[0]
	assert.Equal(t, "company", entry.EntityName)
	assert.Nil(t, entry.ContainerSelector)
	assert.True(t, entry.Enabled)
	assert.Equal(t, mapping.FieldMappingTable{
		"name": {Selector: "h3.title", Extract: mapping.ExtractText},
	}, entry.FieldMappings)
}

func TestBuildSaveRequest_EmptyFieldEntityStillSaved(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.LoadCatalog([]mapping.EntitySchema{
		{Name: "stub", Columns: []string{"id"}},
	}, nil)
	s.SetSourceName("Acme")
	s.SetURL("https://acme.test")
	require.NoError(t, s.ToggleSelection("stub"))

	req, err := s.BuildSaveRequest()
	require.NoError(t, err)
	require.Len(t, req.EntityMappings, 1)
	assert.Empty(t, req.EntityMappings[0].FieldMappings)
}

func TestBuildSaveRequest_OnlySelectedEntities(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	s.SetSourceName("Acme")
	s.SetURL("https://acme.test")
	require.NoError(t, s.ToggleSelection("person"))
	require.NoError(t, s.ToggleEntity("person"))
	require.NoError(t, s.SetContainerSelector("person", ".card"))

	req, err := s.BuildSaveRequest()
	require.NoError(t, err)
	require.Len(t, req.EntityMappings, 1)

	entry := req.EntityMappings[0]
	assert.Equal(t, "person", entry.EntityName)
	assert.False(t, entry.Enabled)
	require.NotNil(t, entry.ContainerSelector)
	assert.Equal(t, ".card", *entry.ContainerSelector)
}

func TestReview(t *testing.T) {
	t.Parallel()

	s := loadedSession(t)
	require.NoError(t, s.SetSelector("company", "name", "h1"))

	out, err := s.Review("company")
	require.NoError(t, err)

	var draft EntityDraft
	require.NoError(t, json.Unmarshal([]byte(out), &draft))
	assert.Equal(t, "company", draft.EntityName)
	assert.Equal(t, "h1", draft.Fields[0].Selector)

	_, err = s.Review("ghost")
	assert.Error(t, err)
}
