package domain

import (
	"encoding/json"
	"strings"
)

// Actor is the resolved identity of the current caller. It is built once per
// request from the token claims and passed down; services never look up the
// role again on their own.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Ref returns the actor as an ownership reference.
func (a Actor) Ref() UserRef {
	return UserRef{ID: a.ID, Name: a.Name, Email: a.Email}
}

// UserRef is the single normalized shape for task ownership. Upstream data
// carries assignees either as a bare email string or as an embedded user
// object; both collapse into this record at the ingress boundary.
type UserRef struct {
	ID    string `gorm:"size:36" json:"id,omitempty"`
	Name  string `gorm:"size:255" json:"name,omitempty"`
	Email string `gorm:"size:255" json:"email"`
}

func (r UserRef) IsZero() bool {
	return r.ID == "" && r.Name == "" && r.Email == ""
}

// UnmarshalJSON accepts either "jane@acme.com" or
// {"id": "...", "name": "Jane", "email": "jane@acme.com"}.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	var email string
	if err := json.Unmarshal(data, &email); err == nil {
		*r = UserRef{Email: strings.TrimSpace(email)}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Email = strings.TrimSpace(p.Email)
	*r = UserRef(p)
	return nil
}

// NormalizeEmail is the comparison key for ownership checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
