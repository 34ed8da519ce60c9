package entity

// SessionUser is the authenticated principal. Email and DisplayName are
// optional; an empty string means the provider did not supply one.
type SessionUser struct {
	Uid         string `json:"uid" yaml:"uid"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Clone returns an independent copy, or nil for an absent user.
func (u *SessionUser) Clone() *SessionUser {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UidOf returns the uid of u, or "" when no user is present.
func UidOf(u *SessionUser) string {
	if u == nil {
		return ""
	}
	return u.Uid
}
