/*
Package sometimes builds in-memory trees of markup elements whose visibility
depends on named boolean conditions, and renders them to text.

A tree is assembled from constructor calls. Each argument is classified by its
type: attributes (Attr, Attrs, map[string]string) are merged onto the element,
Conditions become the element's visibility requirements, and everything else
becomes a child. Unknown argument types are kept as opaque children and are
printed with fmt.Sprint at render time.

	doc := sometimes.HTML(
		sometimes.Div(sometimes.A("id", "everything"),
			sometimes.P("This is a ",
				sometimes.Strong(sometimes.If("bold"), "bold"),
				sometimes.Span(sometimes.Unless("bold"), "plain"),
				" sentence."),
			sometimes.P(sometimes.Data("foo")),
		),
	)
	err := sometimes.Render(os.Stdout, doc, sometimes.If("bold"))

Conditions a render call does not pin are looked up in a Store, so the same
tree can either be rendered several times with different flags or once against
live data. Data and Expr nodes defer their value until they are bound, and
ForEach clones a body once per collection entry to implement iteration.
*/
package sometimes
