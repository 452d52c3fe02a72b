package models

// Pagination echoes the page window applied to a list request.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// EntriesResponse is the wire shape of a paginated logbook listing.
type EntriesResponse struct {
	Success    bool           `json:"success"`
	Data       []LogbookEntry `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// EntryResponse is the wire shape of a single-entry result.
type EntryResponse struct {
	Success bool         `json:"success"`
	Data    LogbookEntry `json:"data"`
}

// MessageResponse is the wire shape of status-only results, both successes
// ("Entry deleted successfully") and failures (generic, non-leaky messages).
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
