// Package assets embeds the files the experiment loads at run time.
package assets

import "embed"

// FS holds the particle sprite.
//
//go:embed particle.png
var FS embed.FS
