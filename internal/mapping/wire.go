package mapping

// Wire shapes exchanged with the mapping store. The gateway submits these
// verbatim; the editor and manager construct them.

// EntityMappingEntry is one entity's record-shaped entry inside a save
// request.
type EntityMappingEntry struct {
	EntityName        string            `json:"entity_name"`
	ContainerSelector *string           `json:"container_selector"`
	FieldMappings     FieldMappingTable `json:"field_mappings"`
	Enabled           bool              `json:"enabled"`
}

// SaveRequest is the payload for persisting the selected entity drafts as
// mapping records.
type SaveRequest struct {
	Source         string               `json:"source"`
	URL            string               `json:"url"`
	EntityMappings []EntityMappingEntry `json:"entity_mappings"`
}

// EditRequest is a full replacement of one record's mutable fields, keyed
// by its current mapping name in the request path.
type EditRequest struct {
	MappingName       string            `json:"mapping_name"`
	ContainerSelector string            `json:"container_selector"`
	FieldMappings     FieldMappingTable `json:"field_mappings"`
	SourceID          int64             `json:"source_id"`
	Enabled           bool              `json:"enabled"`
}

// PreviewRequest asks the backend to run a sample extraction for one
// entity's in-progress mapping.
type PreviewRequest struct {
	URL               string            `json:"url"`
	EntityName        string            `json:"entity_name"`
	ContainerSelector *string           `json:"container_selector"`
	FieldMappings     FieldMappingTable `json:"field_mappings"`
}

// PreviewResult is the backend's bounded sample of extracted rows plus the
// total item count.
type PreviewResult struct {
	Rows       []map[string]any `json:"data"`
	TotalItems int              `json:"total_items"`
}
