package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestParseIDList(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"single id", a.String(), 1, false},
		{"two ids", a.String() + "," + b.String(), 2, false},
		{"duplicates collapse", a.String() + "," + a.String(), 1, false},
		{"surrounding whitespace", " " + a.String() + " , " + b.String() + " ", 2, false},
		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"garbage entry", a.String() + ",not-a-uuid", 0, true},
		{"trailing comma", a.String() + ",", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseIDList(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(ids) != tt.want {
				t.Fatalf("expected %d ids, got %d", tt.want, len(ids))
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"present", "page=3", 3},
		{"absent uses default", "", 7},
		{"non-numeric uses default", "page=abc", 7},
		{"negative passes through", "page=-2", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/items?"+tt.query, nil)
			if got := queryInt(r, "page", 7); got != tt.want {
				t.Fatalf("queryInt = %d, want %d", got, tt.want)
			}
		})
	}
}
