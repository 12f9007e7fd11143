package models

// Entities holds the structured values extracted from a message.
// A nil pointer means the value was not mentioned.
type Entities struct {
	Budget      *int     `json:"budget,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Stars       *int     `json:"stars,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

func (e Entities) IsEmpty() bool {
	return e.Budget == nil && e.Destination == "" && e.Stars == nil && len(e.Amenities) == 0
}

// HasAmenity reports whether tag was requested.
func (e Entities) HasAmenity(tag string) bool {
	for _, a := range e.Amenities {
		if a == tag {
			return true
		}
	}
	return false
}
