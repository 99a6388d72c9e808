package lib

import (
	"net/textproto"
	"strings"
)

// ParseHeadersStringToMap parses a comma separated list of "Key:Value" pairs
// into a header map. Keys are canonicalized to their MIME form and malformed
// pairs are skipped, so CLI input like "authorization:Bearer X, cookie:a=b"
// can be handed straight to request headers.
func ParseHeadersStringToMap(headersStr string) map[string][]string {
	headers := make(map[string][]string)
	if strings.TrimSpace(headersStr) == "" {
		return headers
	}
	for _, pair := range strings.Split(headersStr, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(kv[0]))
		if key == "" {
			continue
		}
		headers[key] = append(headers[key], strings.TrimSpace(kv[1]))
	}
	return headers
}
