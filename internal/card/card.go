package card

// Definition represents one card of a memory card set
type Definition struct {
	Name  string `json:"name" toml:"name"`   // Match key shared by both copies
	Image string `json:"image" toml:"image"` // Path or URL of the face image
}
