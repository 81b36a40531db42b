package main

import (
	"bytes"
	"testing"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
)

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	if err := runDemo(&buf, false); err != nil {
		t.Fatalf("runDemo failed: %v", err)
	}

	page := func(inner string) string {
		return sometimes.Doctype + "\n" +
			`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en">` +
			`<div id="everything" class="foo"><p>This is a ` + inner + ` sentence.</p><p>bar</p></div></html>` +
			"\n\n"
	}
	want := page("<strong>bold</strong>") + page("<span>plain</span>")
	if buf.String() != want {
		t.Errorf("demo output:\n got %q\nwant %q", buf.String(), want)
	}
}
