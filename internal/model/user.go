package model

// UserIdentity identifies the chat user behind an incoming update.
// Supplied by the transport per message; immutable for the interaction.
type UserIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName returns the friendliest available name for greeting the user.
func (u UserIdentity) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "there"
}
