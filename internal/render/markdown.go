// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var markdownPolicy = bluemonday.UGCPolicy()

// Markdown converts user-supplied markdown to sanitized HTML. Event
// descriptions are authored by arbitrary users, so the output goes through
// an allowlist sanitizer before being marked safe for templates.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(src), &buf); err != nil {
		// Fall back to the raw text; the sanitizer still escapes it.
		return template.HTML(markdownPolicy.Sanitize(src))
	}
	return template.HTML(markdownPolicy.SanitizeBytes(buf.Bytes()))
}
