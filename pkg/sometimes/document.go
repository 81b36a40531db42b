package sometimes

const (
	// Doctype is emitted ahead of every Document.
	Doctype = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://w3.org/TR/xhtml1/DTD/xhtml1.1.dtd">`

	// XHTMLNamespace is the default xmlns of a Document.
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"

	// DefaultLang is the default xml:lang of a Document.
	DefaultLang = "en"
)

// Document is the root html element. It always emits the XHTML 1.1 doctype
// line before the element itself, and fills in xmlns and xml:lang when the
// caller did not set them.
type Document struct {
	Node
}

// HTML creates a Document. Arguments are classified as in New.
func HTML(args ...any) *Document {
	d := &Document{Node: *New("html", args...)}
	if _, ok := d.attrs.get("xmlns"); !ok {
		d.attrs.set("xmlns", XHTMLNamespace)
	}
	if _, ok := d.attrs.get("xml:lang"); !ok {
		d.attrs.set("xml:lang", DefaultLang)
	}
	return d
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{Node: *d.Node.Clone()}
}

func (d *Document) cloneElement() Element { return d.Clone() }

// String renders the document against the global store.
func (d *Document) String() string {
	return String(d)
}

func (d *Document) render(rc *renderContext, ambient []Ambient) {
	rc.write(Doctype, "\n")
	d.Node.render(rc, ambient)
}
