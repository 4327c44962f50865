// Package web holds the HTML templates and static assets compiled into the binaries.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

func Templates() fs.FS {
	return templates
}

// Static is rooted at the static directory, so "js/report.js" resolves directly.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
