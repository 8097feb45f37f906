package webui

import _ "embed"

//go:embed index.html
var indexHTML []byte

// IndexHTML returns the embedded single-page UI.
func IndexHTML() []byte {
	return indexHTML
}
