/*
Package datastore persists the entries of a sometimes.Store in a SQLite
database, so the data templates bind against can be seeded from and saved to
disk between runs.

Values are stored as JSON text. Loading therefore yields the JSON shapes of
the saved values: numbers come back as float64, objects as map[string]any and
arrays as []any.
*/
package datastore
