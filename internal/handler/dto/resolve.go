// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/tiktoker/tiktoker/internal/model"

// ErrorResponse is the shared error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ResolveRequest carries raw message text to scan for a video link.
type ResolveRequest struct {
	Content string `json:"content"`
}

// ResolveResponse is the resolved link payload.
type ResolveResponse struct {
	Platform string             `json:"platform"`
	ShortURL string             `json:"short_url"`
	Record   *model.VideoRecord `json:"record"`
}
