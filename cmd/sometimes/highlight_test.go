package main

import (
	"bytes"
	"fmt"
	"testing"
)

func bracketPalette() *palette {
	wrap := func(name string) func(a ...any) string {
		return func(a ...any) string { return name + "(" + fmt.Sprint(a...) + ")" }
	}
	return &palette{
		tag:       wrap("T"),
		attrName:  wrap("N"),
		attrValue: wrap("V"),
		doctype:   wrap("D"),
	}
}

func TestHighlight(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"text only", "plain text", "plain text"},
		{"element", "<p>hi</p>", "T(<p)T(>)hiT(</p)T(>)"},
		{"attributes", `<div id="a" class="b c">x</div>`, `T(<div) N(id)=V("a") N(class)=V("b c")T(>)xT(</div)T(>)`},
		{"self closing", `<img src="x.png" />`, `T(<img) N(src)=V("x.png")T( />)`},
		{"empty self closing", "<hr />", "T(<hr)T( />)"},
		{"doctype", "<!DOCTYPE html>\n<html>", "D(<!DOCTYPE html>)\nT(<html)T(>)"},
		{"unterminated", "a <b", "a <b"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := highlight(tc.in, bracketPalette()); got != tc.want {
				t.Errorf("highlight(%q)\n got %q\nwant %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	if useColor(&MainConfig{}, &buf) {
		t.Error("a buffer is not a terminal")
	}
	if !useColor(&MainConfig{Color: true}, &buf) {
		t.Error("-color should force colors")
	}
	if useColor(&MainConfig{Color: true, Plain: true}, &buf) {
		t.Error("-plain should win")
	}
}
