package main

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette maps markup parts to the functions that decorate them.
type palette struct {
	tag       func(a ...any) string
	attrName  func(a ...any) string
	attrValue func(a ...any) string
	doctype   func(a ...any) string
}

func newPalette() *palette {
	colorFunc := func(attr color.Attribute) func(a ...any) string {
		c := color.New(attr)
		c.EnableColor()
		return c.SprintFunc()
	}
	return &palette{
		tag:       colorFunc(color.FgCyan),
		attrName:  colorFunc(color.FgYellow),
		attrValue: colorFunc(color.FgGreen),
		doctype:   colorFunc(color.FgBlue),
	}
}

// useColor reports whether markup written to w should be colorized.
func useColor(cfg *MainConfig, w io.Writer) bool {
	if cfg.Plain {
		return false
	}
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

var attrPattern = regexp.MustCompile(`(\s+)([^\s=]+)="([^"]*)"`)

// highlight decorates every tag in markup. Text between tags is left as is.
func highlight(markup string, p *palette) string {
	var sb strings.Builder
	s := markup
	for len(s) > 0 {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:i])
		s = s[i:]
		j := strings.IndexByte(s, '>')
		if j < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(p.markTag(s[:j+1]))
		s = s[j+1:]
	}
	return sb.String()
}

func (p *palette) markTag(seg string) string {
	if strings.HasPrefix(seg, "<!") {
		return p.doctype(seg)
	}
	body := seg[1 : len(seg)-1]
	end := ">"
	if strings.HasSuffix(body, " /") {
		body = strings.TrimSuffix(body, " /")
		end = " />"
	}
	name, rest, _ := strings.Cut(body, " ")

	var sb strings.Builder
	sb.WriteString(p.tag("<" + name))
	for _, m := range attrPattern.FindAllStringSubmatch(" "+rest, -1) {
		sb.WriteString(m[1])
		sb.WriteString(p.attrName(m[2]))
		sb.WriteString("=")
		sb.WriteString(p.attrValue(`"` + m[3] + `"`))
	}
	sb.WriteString(p.tag(end))
	return sb.String()
}
