package common

import (
	"strings"
	"testing"
)

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"a":1}{"b":2}`, &v); err == nil {
		t.Error("trailing JSON value should be rejected")
	}
	if err := ParseJSON(`{"a":1} extra`, &v); err == nil {
		t.Error("trailing text should be rejected")
	}
}

func TestParseJSONStrictRejectsUnknownFields(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	if err := ParseJSONStrict(`{"a":1,"b":2}`, &v); err == nil {
		t.Error("unknown field should be rejected in strict mode")
	}
	if err := ParseJSON(`{"a":1,"b":2}`, &v); err != nil {
		t.Errorf("non-strict parse failed: %v", err)
	}
}

func TestCleanJSONFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"plain text", "plain text"},
	}
	for _, tc := range cases {
		if got := CleanJSONFences(tc.in); got != tc.want {
			t.Errorf("CleanJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	in := `The plan: {"meals":[{"x":1}]} hope you like it`
	want := `{"meals":[{"x":1}]}`
	if got := ExtractJSONObject(in); got != want {
		t.Errorf("ExtractJSONObject = %q, want %q", got, want)
	}

	// No braces: input passes through untouched.
	if got := ExtractJSONObject("nothing here"); got != "nothing here" {
		t.Errorf("ExtractJSONObject = %q", got)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	out, err := ToJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}
	if !strings.Contains(out, `"a":1`) {
		t.Errorf("ToJSON = %q", out)
	}
}

func TestNormalizeMealName(t *testing.T) {
	cases := map[string]string{
		"  Spaghetti  ": "spaghetti",
		"TACOS":         "tacos",
		"   ":           "",
		"":              "",
	}
	for in, want := range cases {
		if got := NormalizeMealName(in); got != want {
			t.Errorf("NormalizeMealName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortedTerms(t *testing.T) {
	got := SortedTerms([]string{"walnuts", "eggs", "walnuts", "milk"})
	want := []string{"eggs", "milk", "walnuts"}
	if len(got) != len(want) {
		t.Fatalf("SortedTerms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedTerms = %v, want %v", got, want)
		}
	}
}
