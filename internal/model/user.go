package model

import "time"

type User struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Validate() error {
	if u.ID <= 0 {
		return Err(EINVALID, "id required")
	} else if u.Name == "" {
		return Err(EINVALID, "name required")
	}
	return nil
}

// Credentials is the body sent to login and register. The password only ever
// lives in memory for the duration of the request.
type Credentials struct {
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
}

func (c Credentials) Validate() error {
	if c.Name == "" {
		return Err(EINVALID, "name required")
	} else if c.Password == "" {
		return Err(EINVALID, "password required")
	}
	return nil
}

type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (upd UserUpdate) Validate() error {
	if upd.Name == nil && upd.Email == nil {
		return Err(EINVALID, "one of name or email is required")
	} else if upd.Name != nil && *upd.Name == "" {
		return Err(EINVALID, "name cannot be empty")
	}
	return nil
}

// Build describes the backend build as reported by /api/build.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}
