package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []MappingRecord {
	return []MappingRecord{
		{MappingName: "companies-acme", EntityName: "company", SourceName: "Acme Directory"},
		{MappingName: "people-acme", EntityName: "person", SourceName: "Acme Directory"},
		{MappingName: "places-maps", EntityName: "place", SourceName: "Google Maps"},
		{MappingName: "orphan", EntityName: "company", SourceName: ""},
	}
}

func TestFilter_SearchBySourceSubstring(t *testing.T) {
	t.Parallel()

	got := Filter(sampleRecords(), "acme dir", FilterAllSources)
	require.Len(t, got, 2)
	for i := range got {
		assert.Contains(t, got[i].SourceName, "Acme")
	}
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.Len(t, Filter(sampleRecords(), "GOOGLE", ""), 1)
	assert.Len(t, Filter(sampleRecords(), "CoMpAnY", ""), 2)
}

func TestFilter_BySource(t *testing.T) {
	t.Parallel()

	got := Filter(sampleRecords(), "", "Google Maps")
	require.Len(t, got, 1)
	assert.Equal(t, "places-maps", got[0].MappingName)

	// Records with no source name are addressable as "unknown"
	got = Filter(sampleRecords(), "", "unknown")
	require.Len(t, got, 1)
	assert.Equal(t, "orphan", got[0].MappingName)
}

func TestFilter_NoFilters(t *testing.T) {
	t.Parallel()

	assert.Len(t, Filter(sampleRecords(), "", ""), 4)
	assert.Len(t, Filter(sampleRecords(), "", FilterAllSources), 4)
}

func TestFilter_CombinedSearchAndSource(t *testing.T) {
	t.Parallel()

	got := Filter(sampleRecords(), "people", "Acme Directory")
	require.Len(t, got, 1)
	assert.Equal(t, "people-acme", got[0].MappingName)
}

func TestSourceNames(t *testing.T) {
	t.Parallel()

	names := SourceNames(sampleRecords())
	assert.Equal(t, []string{"Acme Directory", "Google Maps", "unknown"}, names)
}
