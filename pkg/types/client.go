package types

// Client is a customer whose content is being planned.
// Name is always present after normalization; it is the empty string when no
// name alias was supplied.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
	SocialHandle string `json:"socialHandle,omitempty"`
	Niche        string `json:"niche,omitempty"`
	Tone         string `json:"tone,omitempty"`
	Goals        string `json:"goals,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ClientInput carries caller-supplied fields for creating or updating a
// client. Name and ClientName are aliases; the first non-empty one wins.
// Nil pointers leave the corresponding field unchanged on update.
type ClientInput struct {
	Name         *string `json:"name,omitempty"`
	ClientName   *string `json:"client_name,omitempty"`
	SocialHandle *string `json:"socialHandle,omitempty"`
	Niche        *string `json:"niche,omitempty"`
	Tone         *string `json:"tone,omitempty"`
	Goals        *string `json:"goals,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// HasName reports whether either name alias was supplied.
func (in ClientInput) HasName() bool {
	return in.Name != nil || in.ClientName != nil
}
