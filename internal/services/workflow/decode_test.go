package workflow

import (
	"strings"
	"testing"
)

func TestDecodeProposals(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"envelope", `{"result":[{"original_name":"a.mkv","new_name":"A/a.mkv"}]}`, 1},
		{"empty result", `{"result":[]}`, 0},
		{"fenced", "```json\n{\"result\":[{\"original_name\":\"a.mkv\",\"new_name\":\"A/a.mkv\"}]}\n```", 1},
		{"prose", "Here you go:\n{\"result\":[{\"original_name\":\"a [01].mkv\",\"new_name\":\"A/a.mkv\"}]}\nThanks", 1},
		{"bare array", `[{"original_name":"a.mkv","new_name":"A/a.mkv"},{"original_name":"b.mkv","new_name":"B/b.mkv"}]`, 2},
		{"prose array", "Result: [{\"original_name\":\"a.mkv\",\"new_name\":\"A/a.mkv\"}]", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeProposals(tc.input)
			if err != nil {
				t.Fatalf("DecodeProposals: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d proposals, want %d", len(got), tc.want)
			}
		})
	}
}

func TestDecodeProposalsErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "not json", `{"other":1}`, `{"result":null}`} {
		if _, err := DecodeProposals(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestDecodeJSONSnippetIsBounded(t *testing.T) {
	var v map[string]any
	err := DecodeJSON(strings.Repeat("x", 500), &v)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > 400 {
		t.Fatalf("error message not truncated: %d bytes", len(err.Error()))
	}
}
