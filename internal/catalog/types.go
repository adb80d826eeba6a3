package catalog

// Entry is one model from the public catalog listing page. Optional
// fields are empty when the markup did not yield them; a partial entry
// is never an error.
type Entry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	Pulls        string   `json:"pulls,omitempty"`
	TagCount     string   `json:"tag_count,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// HasCapability reports whether the entry lists the given capability
// chip.
func (e Entry) HasCapability(name string) bool {
	for _, c := range e.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}
