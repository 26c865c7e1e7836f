package formutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{" 100 ", 100},
		{"", 0},
		{"abc", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		if got := Float(tt.in); got != tt.want {
			t.Errorf("Float(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"7", 7},
		{"3.7", 3},
		{"", 0},
		{"x", 0},
	}
	for _, tt := range tests {
		if got := Int(tt.in); got != tt.want {
			t.Errorf("Int(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T08:30:00Z", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2024-01-15T08:30", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		if got := Date(tt.in); !got.Equal(tt.want) {
			t.Errorf("Date(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOr(t *testing.T) {
	if got := Or("new", "old"); got != "new" {
		t.Errorf("Or(new, old) = %q, want new", got)
	}
	if got := Or("  ", "old"); got != "old" {
		t.Errorf("Or(blank, old) = %q, want old", got)
	}
}

func TestBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "on"} {
		if !Bool(s) {
			t.Errorf("Bool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "false", "0", "no", "maybe"} {
		if Bool(s) {
			t.Errorf("Bool(%q) = true, want false", s)
		}
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		in     string
		def    int
		want   int
		wantOK bool
	}{
		{"", 6, 6, true},
		{"2", 6, 2, true},
		{"0", 6, 0, false},
		{"-1", 6, 0, false},
		{"abc", 6, 0, false},
	}
	for _, tt := range tests {
		got, ok := PositiveInt(tt.in, tt.def)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PositiveInt(%q, %d) = (%d, %v), want (%d, %v)", tt.in, tt.def, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var in struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "30", "c": "oops", "d": true}`), &in); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if in.A.Float64() != 12.5 {
		t.Errorf("A = %v, want 12.5", in.A)
	}
	if in.B.Int() != 30 {
		t.Errorf("B = %v, want 30", in.B)
	}
	if in.C != 0 || in.D != 0 {
		t.Errorf("C, D = %v, %v, want 0, 0", in.C, in.D)
	}
}
