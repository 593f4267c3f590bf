package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestEnumValidators(t *testing.T) {
	v := validator.New()
	if err := registerEnums(v); err != nil {
		t.Fatalf("registerEnums: %v", err)
	}
	type req struct {
		Status string `validate:"omitempty,access_status"`
		Role   string `validate:"omitempty,role"`
	}
	cases := []struct {
		in   req
		pass bool
	}{
		{req{}, true},
		{req{Status: "UNLOCKED"}, true},
		{req{Status: "completed"}, true},
		{req{Status: "OPEN"}, false},
		{req{Role: "SUPPORT"}, true},
		{req{Role: "OWNER"}, false},
	}
	for _, tc := range cases {
		err := v.Struct(tc.in)
		if (err == nil) != tc.pass {
			t.Fatalf("%+v: want pass=%v got err=%v", tc.in, tc.pass, err)
		}
	}
}
