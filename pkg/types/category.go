package types

// Category groups neologisms. Names are display labels and are not
// required to be unique.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
