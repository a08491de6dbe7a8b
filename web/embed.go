// Package web embeds the two thin page shells that host the client-side
// application: the records page and the dictionaries-management page.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
