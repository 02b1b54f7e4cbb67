package model

import "time"

// List is a named, user-owned collection of Items.
type List struct {
	ID        int     `json:"id"`
	UserID    int     `json:"userId"`
	Name      string  `json:"name"`
	Completed bool    `json:"completed"`
	Items     []*Item `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *List) Validate() error {
	if l.Name == "" {
		return Err(EINVALID, "name required")
	}
	return nil
}

// Stats counts completed and pending items.
func (l *List) Stats() (done, pending int) {
	for _, it := range l.Items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// AllCompleted reports whether the list has items and every one of them is completed.
func (l *List) AllCompleted() bool {
	done, pending := l.Stats()
	return done > 0 && pending == 0
}

// Item returns the item with the given id, or nil.
func (l *List) Item(id int) *Item {
	for _, it := range l.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// ReplaceItem swaps in it for the item with the same id, appending when absent.
func (l *List) ReplaceItem(it *Item) {
	for i := range l.Items {
		if l.Items[i].ID == it.ID {
			l.Items[i] = it
			return
		}
	}
	l.Items = append(l.Items, it)
}

// RemoveItem drops the item with the given id and reports whether it was present.
func (l *List) RemoveItem(id int) bool {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ListUpdate is the PATCH body for a list. Nil fields are left untouched.
type ListUpdate struct {
	Name      *string `json:"name,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (upd ListUpdate) Validate() error {
	if upd.Name == nil && upd.Completed == nil {
		return Err(EINVALID, "one of name or completed is required")
	} else if upd.Name != nil && *upd.Name == "" {
		return Err(EINVALID, "name cannot be empty")
	}
	return nil
}
