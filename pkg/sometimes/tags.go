package sometimes

// Constructors for common tags. Each is New with the tag name filled in.

func Head(args ...any) *Node { return New("head", args...) }
func Title(args ...any) *Node { return New("title", args...) }
func Style(args ...any) *Node { return New("style", args...) }
func Script(args ...any) *Node { return New("script", args...) }
func Meta(args ...any) *Node { return New("meta", args...) }
func Body(args ...any) *Node { return New("body", args...) }
func Div(args ...any) *Node { return New("div", args...) }
func H1(args ...any) *Node { return New("h1", args...) }
func H2(args ...any) *Node { return New("h2", args...) }
func H3(args ...any) *Node { return New("h3", args...) }
func H4(args ...any) *Node { return New("h4", args...) }
func H5(args ...any) *Node { return New("h5", args...) }
func H6(args ...any) *Node { return New("h6", args...) }
func P(args ...any) *Node { return New("p", args...) }
func Pre(args ...any) *Node { return New("pre", args...) }
func Span(args ...any) *Node { return New("span", args...) }
func Strong(args ...any) *Node { return New("strong", args...) }
func Em(args ...any) *Node { return New("em", args...) }
func Big(args ...any) *Node { return New("big", args...) }
func Small(args ...any) *Node { return New("small", args...) }
func Tt(args ...any) *Node { return New("tt", args...) }
func Code(args ...any) *Node { return New("code", args...) }
func Kbd(args ...any) *Node { return New("kbd", args...) }
func Del(args ...any) *Node { return New("del", args...) }
func Ul(args ...any) *Node { return New("ul", args...) }
func Ol(args ...any) *Node { return New("ol", args...) }
func Li(args ...any) *Node { return New("li", args...) }
func Hr(args ...any) *Node { return New("hr", args...) }
func Img(args ...any) *Node { return New("img", args...) }
func Table(args ...any) *Node { return New("table", args...) }
func Tr(args ...any) *Node { return New("tr", args...) }
func Th(args ...any) *Node { return New("th", args...) }
func Td(args ...any) *Node { return New("td", args...) }
