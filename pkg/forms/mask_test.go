package forms

import (
	"testing"
	"time"
)

func TestGenerateIDMaskAt(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		mask string
		want string
	}{
		{"CAS-YYYY-***", "CAS-2024-"},
		{"yyyy-**", "yyyy-"}, // lower-case is not a token
		{"CON-YYYY-YYYY-*", "CON-2024-2024-"},
		{"PLAIN", "PLAIN"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := GenerateIDMaskAt(tc.mask, now); got != tc.want {
			t.Fatalf("GenerateIDMaskAt(%q) = %q, want %q", tc.mask, got, tc.want)
		}
	}
}
