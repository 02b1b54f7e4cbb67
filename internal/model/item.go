package model

import "time"

// Item is the domain model for a todo entry. It always belongs to exactly one List.
type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	ListID    int    `json:"listId"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Item) Validate() error {
	if i.Name == "" {
		return Err(EINVALID, "name required")
	} else if i.ListID <= 0 {
		return Err(EINVALID, "list id required")
	}
	return nil
}

// ItemUpdate is the PATCH body for an item. Nil fields are left untouched.
type ItemUpdate struct {
	Name      *string `json:"name,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (upd ItemUpdate) Validate() error {
	if upd.Name == nil && upd.Completed == nil {
		return Err(EINVALID, "one of name or completed is required")
	} else if upd.Name != nil && *upd.Name == "" {
		return Err(EINVALID, "name cannot be empty")
	}
	return nil
}
