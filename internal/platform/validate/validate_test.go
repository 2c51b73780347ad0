package validate

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "rfinder/internal/platform/errors"
	kit "rfinder/internal/platform/testkit"
)

type sample struct {
	Name    string `json:"name" validate:"required"`
	Workers int    `json:"workers" validate:"min=1,max=64"`
	Hidden  string `json:"-"`
}

func TestStruct_OKAndFailures(t *testing.T) {
	if err := Struct(sample{Name: "x", Workers: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Struct(sample{Name: "x", Workers: 0})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation code, got %v", err)
	}
	e, _ := perr.As(err)
	if e.Field() != "workers" {
		t.Fatalf("field = %q, want workers", e.Field())
	}
	kit.MustContain(t, err.Error(), "workers must be at least 1")

	err = Struct(sample{Workers: 2})
	kit.MustContain(t, err.Error(), "name")
}

func TestFieldAndMessage_NonValidatorError(t *testing.T) {
	f, m := FieldAndMessage(perr.New(perr.ErrorCodeUnknown, "boom"))
	if f != "" || m != "boom" {
		t.Fatalf("got %q %q", f, m)
	}
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil err should give empty pair")
	}
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name string
		body string
		code perr.ErrorCode
		ok   bool
	}{
		{name: "valid", body: `{"name":"a","workers":3}`, ok: true},
		{name: "unknown field", body: `{"name":"a","workers":3,"x":1}`, code: perr.ErrorCodeJSON},
		{name: "trailing", body: `{"name":"a","workers":3} {}`, code: perr.ErrorCodeJSON},
		{name: "empty body still validated", body: ``, code: perr.ErrorCodeValidation},
		{name: "bad value", body: `{"name":"a","workers":100}`, code: perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			got, err := DecodeJSON[sample](r)
			if tc.ok {
				if err != nil || got.Workers != 3 {
					t.Fatalf("got %+v err=%v", got, err)
				}
				return
			}
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("want %v, got %v", tc.code, err)
			}
		})
	}
}
