// Package ui embeds the page templates and static assets.
package ui

import "embed"

//go:embed html static
var Files embed.FS
