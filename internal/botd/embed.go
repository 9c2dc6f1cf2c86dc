// ABOUTME: Embeds console HTML templates into the binary using go:embed
// ABOUTME: Provides templateFS for loading templates at runtime

package botd

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
