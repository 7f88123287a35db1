package models

type TemplateUpdateRequest struct {
	Name     *string `json:"name"`
	KeyField *string `json:"key_field"`
}

type DocumentCreateRequest struct {
	FieldValues map[string]string `json:"field_values"`
	CreatedBy   *string           `json:"created_by"`
}

type RenderRequest struct {
	FieldValues map[string]string `json:"field_values"`
}

type StreamRequest struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}
