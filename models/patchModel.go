package models

// Patch maps a field name to its new value. It is sent as one request.
type Patch map[string]any

func (p Patch) IsEmpty() bool {
	return len(p) == 0
}

type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
