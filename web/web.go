// Package web embeds the landing page template and its browser assets.
package web

import "embed"

//go:embed templates static
var FS embed.FS
