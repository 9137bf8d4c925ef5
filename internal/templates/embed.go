package templates

import "embed"

// Files stores the HTML page templates embedded into the binary.
//
//go:embed *.html
var Files embed.FS
