package tui

import (
	"context"

	"github.com/idilsaglam/todolists/internal/model"
)

// Backend is the part of the API the interactive UI talks to. *api.Client
// satisfies it.
type Backend interface {
	Login(ctx context.Context, name, password string) (*model.User, error)
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Logout(ctx context.Context) error
	// ClearToken forgets a bearer key so the next login starts anonymous.
	ClearToken()
	Me(ctx context.Context) (*model.User, error)

	Lists(ctx context.Context) ([]*model.List, error)
	CreateList(ctx context.Context, name string) (*model.List, error)
	RenameList(ctx context.Context, id int, name string) (*model.List, error)
	DeleteList(ctx context.Context, id int) error

	CreateItem(ctx context.Context, listID int, name string) (*model.Item, error)
	RenameItem(ctx context.Context, listID, id int, name string) (*model.Item, error)
	SetItemCompleted(ctx context.Context, listID, id int, completed bool) (*model.Item, error)
	DeleteItem(ctx context.Context, listID, id int) error
}
