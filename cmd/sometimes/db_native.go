//go:build !cgo_sqlite

package main

import (
	"database/sql"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// initDB opens the database with the pure-Go driver. The mattn-style
// _journal_mode and _busy_timeout parameters are translated to pragmas.
func initDB(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", nativeDSN(dataSource))
}

func nativeDSN(dataSource string) string {
	path, rawQuery, ok := strings.Cut(dataSource, "?")
	if !ok {
		return dataSource
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dataSource
	}
	out := url.Values{}
	for key, values := range query {
		for _, v := range values {
			switch key {
			case "_journal_mode":
				out.Add("_pragma", "journal_mode("+v+")")
			case "_busy_timeout":
				out.Add("_pragma", "busy_timeout("+v+")")
			default:
				out.Add(key, v)
			}
		}
	}
	return path + "?" + out.Encode()
}
