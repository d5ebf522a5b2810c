package entities

import "encoding/json"

// Envelope wraps every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// CreatedResponse is returned by create endpoints.
type CreatedResponse struct {
	ID int64 `json:"id"`
}
