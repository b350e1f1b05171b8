// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

func Templates() (fs.FS, error) {
	return fs.Sub(files, "templates")
}

func Static() (fs.FS, error) {
	return fs.Sub(files, "static")
}
