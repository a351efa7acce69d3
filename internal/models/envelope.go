package models

// Envelope is the wrapper around every API response.
type Envelope[D any] struct {
	Success bool         `json:"success"`
	Count   *int         `json:"count,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    D            `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
