package web

import _ "embed"

// chartPage is the browser-side renderer. The server only supplies the
// ordered sample stream; all drawing happens in the page.
//
//go:embed chart.html
var chartPage []byte
