package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateOffline(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("valid draft prints totals", func(t *testing.T) {
		path := writeFile(t, `{
			"title": "Lunch combo",
			"description": "Burger and fries at a discount",
			"deal_type": "STANDARD",
			"discount_percentage": 20,
			"start_time": "2024-03-05T00:00:00Z",
			"end_time": "2024-03-10T00:00:00Z",
			"selected_menu_items": [
				{"id": "a", "name": "Burger", "price": 10},
				{"id": "b", "name": "Fries", "price": 5, "custom_price": 3}
			]
		}`)

		var out bytes.Buffer
		if err := validateOffline(&out, path, now); err != nil {
			t.Fatalf("validateOffline: %v\n%s", err, out.String())
		}
		got := out.String()
		for _, want := range []string{"original $15.00", "final $11.00", "savings $4.00", "valid"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("invalid draft lists errors", func(t *testing.T) {
		path := writeFile(t, `{"deal_type": "STANDARD", "selected_menu_items": []}`)

		var out bytes.Buffer
		err := validateOffline(&out, path, now)
		if !errors.Is(err, errInvalid) {
			t.Fatalf("err = %v, want errInvalid", err)
		}
		if !strings.Contains(out.String(), "error:") {
			t.Errorf("no errors printed:\n%s", out.String())
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeFile(t, `{"titel": "typo"}`)
		if err := validateOffline(&bytes.Buffer{}, path, now); err == nil || errors.Is(err, errInvalid) {
			t.Fatalf("err = %v, want parse error", err)
		}
	})
}

func TestParseNow(t *testing.T) {
	if _, err := parseNow("yesterday"); err == nil {
		t.Error("parseNow accepted garbage")
	}
	got, err := parseNow("2024-03-04T10:00:00Z")
	if err != nil || got.Day() != 4 {
		t.Errorf("parseNow = %v, %v", got, err)
	}
}
