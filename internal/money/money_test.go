package money

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out Cents
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up on the third decimal
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"100.00", 10000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDecimal(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseDecimal(%q) expected error, got %d", tc.in, got)
			continue
		}
		if got != tc.out {
			t.Errorf("ParseDecimal(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out Cents
	}{
		{33.335, 3334}, // half away from zero
		{33.334, 3333},
		{100.00, 10000},
		{0.005, 1},
		{-0.005, -1},
	}
	for _, tc := range cases {
		if got := FromFloat(tc.in); got != tc.out {
			t.Errorf("FromFloat(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{3334, "33.34"},
		{100, "1.00"},
		{5, "0.05"},
		{-50, "-0.50"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in  string
		out Cents
		ok  bool
	}{
		{`42.5`, 4250, true},
		{`100`, 10000, true},
		{`0`, 0, true},
		{`"42.50"`, 4250, true},
		{`"42,50"`, 4250, true},
		{`"1.005"`, 101, true},
		{`"0"`, 0, false},
		{`"-1"`, 0, false},
		{`"abc"`, 0, false},
		{`true`, 0, false},
	}
	for _, tc := range cases {
		var got Cents
		err := json.Unmarshal([]byte(tc.in), &got)
		if tc.ok != (err == nil) {
			t.Errorf("Unmarshal(%s) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.out {
			t.Errorf("Unmarshal(%s) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, c := range []Cents{1, 99, 100, 3334, 999999} {
		if got := FromFloat(c.Float()); got != c {
			t.Errorf("round trip of %d cents gave %d", c, got)
		}
	}
}
