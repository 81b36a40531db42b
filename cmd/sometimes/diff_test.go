package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
)

func TestMarkupDiff(t *testing.T) {
	diffs, differs := markupDiff("<p><strong>bold</strong></p>", "<p><span>plain</span></p>")
	if !differs {
		t.Fatal("expected outputs to differ")
	}
	got := plainDiff(diffs)
	if got == "" || got == "<p><strong>bold</strong></p>" {
		t.Errorf("unexpected diff text %q", got)
	}

	if _, differs = markupDiff("<p>same</p>", "<p>same</p>"); differs {
		t.Error("identical outputs reported as different")
	}
}

func TestPlainDiff(t *testing.T) {
	diffs, _ := markupDiff("<p>a</p>", "<p>b</p>")
	if got, want := plainDiff(diffs), "<p>[-a-]{+b+}</p>"; got != want {
		t.Errorf("plainDiff = %q, want %q", got, want)
	}
}

func TestParseAssignment(t *testing.T) {
	testCases := []struct {
		in      string
		key     string
		want    any
		wantErr bool
	}{
		{in: "title=Hello", key: "title", want: "Hello"},
		{in: "bold=true", key: "bold", want: true},
		{in: "items=[a, b]", key: "items", want: []any{"a", "b"}},
		{in: "quoted='0'", key: "quoted", want: "0"},
		{in: "novalue", wantErr: true},
		{in: "=x", wantErr: true},
	}
	for _, tc := range testCases {
		key, v, err := parseAssignment(tc.in)
		if tc.wantErr {
			if !errors.Is(err, cli.ErrUsage) {
				t.Errorf("parseAssignment(%q) error = %v, want usage error", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAssignment(%q) failed: %v", tc.in, err)
			continue
		}
		if key != tc.key {
			t.Errorf("parseAssignment(%q) key = %q, want %q", tc.in, key, tc.key)
		}
		if diff := cmp.Diff(tc.want, v); diff != "" {
			t.Errorf("parseAssignment(%q) value mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}
