package model_test

import (
	"errors"
	"testing"

	"github.com/idilsaglam/todolists/internal/model"
)

func TestListItems(t *testing.T) {
	l := &model.List{ID: 1, Name: "groceries"}
	if l.AllCompleted() {
		t.Fatal("empty list should not be completed")
	}

	l.ReplaceItem(&model.Item{ID: 1, ListID: 1, Name: "milk"})
	l.ReplaceItem(&model.Item{ID: 2, ListID: 1, Name: "eggs", Completed: true})
	if done, pending := l.Stats(); done != 1 || pending != 1 {
		t.Fatalf("want 1/1 got %d/%d", done, pending)
	}

	l.ReplaceItem(&model.Item{ID: 1, ListID: 1, Name: "oat milk", Completed: true})
	if got := l.Item(1); got == nil || got.Name != "oat milk" {
		t.Fatalf("want replaced item got %+v", got)
	} else if len(l.Items) != 2 {
		t.Fatalf("replace should not append, have %d items", len(l.Items))
	}
	if !l.AllCompleted() {
		t.Fatal("want list completed")
	}

	if !l.RemoveItem(2) || l.RemoveItem(2) {
		t.Fatal("want item 2 removed exactly once")
	}
	if !l.RemoveItem(1) {
		t.Fatal("want item 1 removed")
	}
	if len(l.Items) != 0 || l.Item(1) != nil {
		t.Fatalf("want empty list got %v", l.Items)
	}
}

func TestUpdatesValidate(t *testing.T) {
	empty, name, done := "", "x", true
	tt := []struct {
		Err  error
		Want bool
	}{
		{model.ListUpdate{}.Validate(), false},
		{model.ListUpdate{Name: &empty}.Validate(), false},
		{model.ListUpdate{Name: &name}.Validate(), true},
		{model.ListUpdate{Completed: &done}.Validate(), true},
		{model.ItemUpdate{}.Validate(), false},
		{model.ItemUpdate{Name: &empty, Completed: &done}.Validate(), false},
		{model.ItemUpdate{Completed: &done}.Validate(), true},
		{model.UserUpdate{}.Validate(), false},
		{model.UserUpdate{Email: &name}.Validate(), true},
		{model.Credentials{Name: "a"}.Validate(), false},
		{model.Credentials{Name: "a", Password: "b"}.Validate(), true},
	}
	for i, tc := range tt {
		if ok := tc.Err == nil; ok != tc.Want {
			t.Errorf("%d want valid=%v got err %v", i, tc.Want, tc.Err)
		} else if !ok && !errors.Is(tc.Err, model.Invalid) {
			t.Errorf("%d want invalid error got %v", i, tc.Err)
		}
	}
}
