package lib

import (
	"fmt"
	"net/url"
	"strings"
)

// CanonicalizeURL normalizes a URL for crawl deduplication and storage:
// scheme and host are lowercased, the default port for the scheme is
// stripped and the fragment is removed. The path and query are preserved.
func CanonicalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %s", rawURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	switch {
	case port == "":
		u.Host = host
	case u.Scheme == "http" && port == "80":
		u.Host = host
	case u.Scheme == "https" && port == "443":
		u.Host = host
	default:
		u.Host = host + ":" + port
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// IsWebURL reports whether the URL parses and uses the http or https scheme.
func IsWebURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsFragmentOnly reports whether the candidate link only changes the fragment
// relative to its page, so following it would refetch the same document.
func IsFragmentOnly(rawURL string) bool {
	trimmed := strings.TrimSpace(rawURL)
	return strings.HasPrefix(trimmed, "#")
}

func IsRootURL(urlStr string) (bool, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return false, fmt.Errorf("invalid URL")
	}
	return strings.Trim(parsedURL.Path, "/") == "" && parsedURL.RawQuery == "", nil
}

// CalculateURLDepth calculates the depth of a URL.
// Returns -1 if the URL is invalid.
func CalculateURLDepth(rawURL string) int {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return -1
	}
	path := parsedURL.Path
	if path == "" || path == "/" {
		return 0
	}
	segments := strings.Split(path, "/")
	depth := 0
	for _, segment := range segments {
		if segment != "" {
			depth++
		}
	}
	return depth
}

// GetBaseURL extracts the base URL from a URL string.
func GetBaseURL(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

// GetHostFromURL extracts the host from the given URL.
func GetHostFromURL(u string) (string, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	return parsedURL.Hostname(), nil
}
