package entity

// Principal is the authenticated identity every read and write is scoped to.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

func (p Principal) Authenticated() bool {
	return p.ID != ""
}
