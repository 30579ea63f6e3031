// Package web embeds the FinSafe page templates and browser assets.
package web

import "embed"

// TemplatesFS holds the page layouts and the HTMX partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the client script.
//
//go:embed static/*
var StaticFS embed.FS
