package api

// Turn is one prior turn of conversation history supplied by the
// caller. Order is chronological.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request for POST /v1/chat. Model is optional; the
// gateway orchestrates onto the best available model when it is empty
// or unsuitable for the detected task.
type ChatRequest struct {
	Model   string   `json:"model,omitempty"`
	Prompt  string   `json:"prompt"`
	History []Turn   `json:"history,omitempty"`
	Images  []string `json:"images,omitempty"` // base64 blobs
}

// ChatResponse is the response for POST /v1/chat.
type ChatResponse struct {
	Model        string `json:"model"`
	Response     string `json:"response"`
	Task         string `json:"task"`
	ModelChanged bool   `json:"model_changed"`
	UsedFallback bool   `json:"used_fallback"`
}

// ModelListResponse is the response for GET /v1/models.
type ModelListResponse struct {
	Models []string `json:"models"`
}

// PullRequest is the request for POST /api/pull.
type PullRequest struct {
	Model string `json:"model"`
}

// PullEvent is one SSE data payload of the pull progress stream.
type PullEvent struct {
	Status    string `json:"status"`
	Completed int64  `json:"completed,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Percent   int    `json:"percent,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CatalogModel is one entry of the GET /v1/catalog response.
type CatalogModel struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	Pulls        string   `json:"pulls,omitempty"`
	TagCount     string   `json:"tag_count,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// CatalogResponse is the response for GET /v1/catalog.
type CatalogResponse struct {
	Models []CatalogModel `json:"models"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}
