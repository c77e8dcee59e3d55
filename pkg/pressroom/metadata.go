package pressroom

import "encoding/json"

// ContentMeta is the partial-update structure accepted from clients. It is a
// fixed whitelist of the editable schema fields; unknown keys in submitted
// JSON are discarded rather than spread onto the entity.
type ContentMeta struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Status      string `json:"status"`
}

// ParseMeta decodes the JSON metadata field of a multipart request.
// Malformed metadata is tolerated, not rejected: any input that fails to
// decode yields the zero value, so the request proceeds with defaults.
func ParseMeta(raw string) ContentMeta {
	var meta ContentMeta
	if raw == "" {
		return meta
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return ContentMeta{}
	}
	return meta
}
