package api

import (
	"net/url"
	"strings"
)

// parseIncludes collects the requested side-loaded relations from the
// comma-separated include parameter.
func parseIncludes(params url.Values) map[string]bool {
	includes := make(map[string]bool)
	for _, raw := range params["include"] {
		for _, piece := range strings.Split(raw, ",") {
			if piece = strings.TrimSpace(piece); piece != "" {
				includes[piece] = true
			}
		}
	}
	return includes
}
