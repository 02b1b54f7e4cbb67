package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/idilsaglam/todolists/internal/model"
)

func listPath(id int) string         { return fmt.Sprintf("/api/todos/%d", id) }
func itemPath(listID, id int) string { return fmt.Sprintf("/api/todos/%d/%d", listID, id) }

func requireID(what string, id int) error {
	if id <= 0 {
		return model.Err(model.EINVALID, "invalid %s id", what)
	}
	return nil
}

func requireName(name string) (string, error) {
	if name = strings.TrimSpace(name); name == "" {
		return "", model.Err(model.EINVALID, "name required")
	}
	return name, nil
}

// Lists returns every list owned by the current user, items included.
func (c *Client) Lists(ctx context.Context) ([]*model.List, error) {
	lists := make([]*model.List, 0)
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) List(ctx context.Context, id int) (*model.List, error) {
	if err := requireID("list", id); err != nil {
		return nil, err
	}
	var l model.List
	if err := c.do(ctx, http.MethodGet, listPath(id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) CreateList(ctx context.Context, name string) (*model.List, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	req := struct {
		Name      string `json:"name"`
		Completed bool   `json:"completed"`
	}{Name: name}
	var l model.List
	if err := c.do(ctx, http.MethodPost, "/api/todos/", req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateList(ctx context.Context, id int, upd model.ListUpdate) (*model.List, error) {
	if err := requireID("list", id); err != nil {
		return nil, err
	} else if err := upd.Validate(); err != nil {
		return nil, err
	}
	var l model.List
	if err := c.do(ctx, http.MethodPatch, listPath(id), upd, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) RenameList(ctx context.Context, id int, name string) (*model.List, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	return c.UpdateList(ctx, id, model.ListUpdate{Name: &name})
}

func (c *Client) SetListCompleted(ctx context.Context, id int, completed bool) (*model.List, error) {
	return c.UpdateList(ctx, id, model.ListUpdate{Completed: &completed})
}

func (c *Client) DeleteList(ctx context.Context, id int) error {
	if err := requireID("list", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, listPath(id), nil, nil)
}

func (c *Client) CreateItem(ctx context.Context, listID int, name string) (*model.Item, error) {
	if err := requireID("list", listID); err != nil {
		return nil, err
	}
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	req := struct {
		Name   string `json:"name"`
		ListID int    `json:"listId"`
	}{Name: name, ListID: listID}
	var it model.Item
	if err := c.do(ctx, http.MethodPost, listPath(listID)+"/", req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) Item(ctx context.Context, listID, id int) (*model.Item, error) {
	if err := requireID("list", listID); err != nil {
		return nil, err
	} else if err := requireID("item", id); err != nil {
		return nil, err
	}
	var it model.Item
	if err := c.do(ctx, http.MethodGet, itemPath(listID, id), nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) UpdateItem(ctx context.Context, listID, id int, upd model.ItemUpdate) (*model.Item, error) {
	if err := requireID("list", listID); err != nil {
		return nil, err
	} else if err := requireID("item", id); err != nil {
		return nil, err
	} else if err := upd.Validate(); err != nil {
		return nil, err
	}
	var it model.Item
	if err := c.do(ctx, http.MethodPatch, itemPath(listID, id), upd, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) SetItemCompleted(ctx context.Context, listID, id int, completed bool) (*model.Item, error) {
	return c.UpdateItem(ctx, listID, id, model.ItemUpdate{Completed: &completed})
}

func (c *Client) RenameItem(ctx context.Context, listID, id int, name string) (*model.Item, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	return c.UpdateItem(ctx, listID, id, model.ItemUpdate{Name: &name})
}

func (c *Client) DeleteItem(ctx context.Context, listID, id int) error {
	if err := requireID("list", listID); err != nil {
		return err
	} else if err := requireID("item", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, itemPath(listID, id), nil, nil)
}
