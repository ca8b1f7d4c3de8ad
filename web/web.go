// Package web embeds the static public storefront page. The page is plain
// HTML/CSS/JS: catalog rendering against the public products endpoint plus
// cosmetic behavior (menu toggle, scroll shadow, hero slideshow).
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Handler serves the embedded storefront assets.
func Handler() http.Handler {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		// embed guarantees the directory exists; this cannot happen at runtime
		panic(err)
	}
	return http.FileServer(http.FS(static))
}
