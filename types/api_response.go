package types

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse documents the failure envelope rendered by the error middleware.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Pagination describes a limit/offset window and the total row count.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// PaginatedResponse is the data payload of paginated listings.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// PaginationParams defines common pagination query parameters
type PaginationParams struct {
	Limit  int `form:"limit" binding:"omitempty,gte=0,lte=200"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}
