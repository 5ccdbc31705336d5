// Package views embeds the HTML templates rendered by the server.
package views

import "embed"

//go:embed *.html layouts/*.html partials/*.html
var FS embed.FS
