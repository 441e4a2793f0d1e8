// Package web embeds the HTML templates and stylesheet for the waitlist pages.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed assets/style.css
var Assets embed.FS
