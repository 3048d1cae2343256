package web

import "embed"

// TemplatesFS embeds the host pages. Each page carries the anchors the
// renderers patch.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets.
//
//go:embed static/*
var StaticFS embed.FS
