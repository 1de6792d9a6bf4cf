package dto

import "time"

// MessageResponse represents a plain acknowledgement returned by delete and course-side enrollment endpoints
type MessageResponse struct {
	Message string `json:"message" example:"Student enrolled successfully"`
}

// PaginationInfo is embedded in list envelopes
type PaginationInfo struct {
	TotalPages  int   `json:"totalPages" example:"3"`
	CurrentPage int   `json:"currentPage" example:"1"`
	Total       int64 `json:"total" example:"25"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Message   string    `json:"message" example:"Server is running"`
	Store     string    `json:"store" example:"postgres"`
	Timestamp time.Time `json:"timestamp"`
}
