/*
Package templating loads markup definitions from a directory of YAML files and
turns them into sometimes trees.

Each "*.tmpl.yaml" file in the template directory describes one tree. A YAML
scalar is a text child, and a mapping is an element or one of the special
forms below:

	tag: div                 # element
	attrs: {id: main}        # ordered attributes
	if: {bold: true}         # visibility conditions
	children: [...]

	raw: "<br />"            # unescaped text
	data: foo                # late-bound store value (if: allowed)
	expr: "count * 2"        # late-bound expression (if: allowed)
	group: [...]             # invisible wrapper (if: allowed)
	document: [...]          # html root with doctype (attrs:, if: allowed)
	each: items              # iterate the store value under "items"
	as: [k, v]
	children: [...]

Templates are parsed once per Refresh and a fresh tree is built on every Load,
so late-bound values always reflect the store at the time of the call.
*/
package templating
