package items

// CreateItem is the POST payload for creating a new item. The id is optional:
// clients may claim one or let the server assign it.
type CreateItem struct {
	Name string  `json:"name"`
	ID   *uint64 `json:"id,omitempty"`
}

// ItemListResponse lists all stored item names with their total count.
type ItemListResponse struct {
	NumItems int      `json:"num_items"`
	Names    []string `json:"names"`
}

// MessageResponse is a simple informational payload.
type MessageResponse struct {
	Message string `json:"message"`
}
