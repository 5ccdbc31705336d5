// Package static embeds the dashboard's CSS and other assets.
package static

import "embed"

//go:embed *.css
var FS embed.FS
