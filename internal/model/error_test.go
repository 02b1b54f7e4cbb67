package model_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/idilsaglam/todolists/internal/model"
)

func TestError(t *testing.T) {
	tt := []struct {
		Error       error
		InTarget    error
		Want        bool
		WantMessage string
		WantCode    string
	}{
		{
			Error:       model.Err(model.EINVALID, ""),
			InTarget:    model.Invalid,
			Want:        true,
			WantMessage: "",
			WantCode:    model.EINVALID,
		},
		{
			Error:       model.Err(model.EINTERNAL, "test message"),
			InTarget:    model.Internal,
			Want:        true,
			WantMessage: "test message",
			WantCode:    model.EINTERNAL,
		},
		{
			Error:       model.Err(model.ENOTFOUND, ""),
			InTarget:    model.NotFound,
			Want:        true,
			WantMessage: "",
			WantCode:    model.ENOTFOUND,
		},
		{
			Error:       model.Err(model.EUNAUTHORIZED, "nope"),
			InTarget:    model.Unauthorized,
			Want:        true,
			WantMessage: "nope",
			WantCode:    model.EUNAUTHORIZED,
		},
		{
			Error:       fmt.Errorf("wrapped: %w", model.Err(model.ECONFLICT, "taken")),
			InTarget:    model.Conflict,
			Want:        true,
			WantMessage: "taken",
			WantCode:    model.ECONFLICT,
		},
		{
			Error:       model.Err(model.EINVALID, ""),
			InTarget:    model.Err(model.EINVALID+"_different_reason", "different message"),
			Want:        false,
			WantMessage: "",
			WantCode:    model.EINVALID,
		},
		{
			Error:       model.Err(model.EINVALID, ""),
			InTarget:    nil,
			Want:        false,
			WantMessage: "",
			WantCode:    model.EINVALID,
		},
		{
			Error:       errors.New("boom"),
			InTarget:    model.Internal,
			Want:        false,
			WantMessage: "internal error",
			WantCode:    model.EINTERNAL,
		},
	}

	for i, tc := range tt {
		if got, want := errors.Is(tc.Error, tc.InTarget), tc.Want; want != got {
			t.Errorf("%d want %v got %v", i, want, got)
		}

		if got, want := model.ErrCode(tc.Error), tc.WantCode; want != got {
			t.Errorf("%d want code %q got %q", i, want, got)
		} else if got, want = model.ErrMessage(tc.Error), tc.WantMessage; want != got {
			t.Errorf("%d want message %q got %q", i, want, got)
		}
	}
}

func TestStatusCodeRoundTrip(t *testing.T) {
	for _, status := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusInternalServerError,
	} {
		err := model.Err(model.ErrCodeFromStatus(status), "x")
		if got := model.StatusCode(err); got != status {
			t.Errorf("want status %d got %d", status, got)
		}
	}

	if got := model.ErrCodeFromStatus(http.StatusTeapot); got != model.EINTERNAL {
		t.Errorf("want %q for unmapped status got %q", model.EINTERNAL, got)
	}
}
