package model

// Hotel is the minimal hotel snapshot served by the external catalog.
// The booking core only needs the display name for event payloads.
type Hotel struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
