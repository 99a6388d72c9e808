package crawl

import (
	"path"
	"strings"

	"github.com/spf13/viper"

	"github.com/pyneda/kansa/lib"
)

// Extensions the crawler never fetches. Accessibility scanners only operate
// on HTML documents, so assets and downloads are skipped at link time.
var defaultIgnoredExtensions = []string{
	".js", ".mjs", ".css", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".bmp", ".ico",
	".woff", ".woff2", ".ttf", ".otf", ".eot",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".csv",
	".zip", ".tar", ".gz", ".rar", ".7z",
	".mp3", ".mp4", ".ogg", ".wav", ".webm", ".flv", ".avi", ".mov",
	".xml", ".rss", ".atom", ".json",
}

// ignoredExtensionList returns the configured skip list, falling back to the
// defaults.
func ignoredExtensionList() []string {
	if configured := viper.GetStringSlice("crawl.ignored_extensions"); len(configured) > 0 {
		return configured
	}
	return defaultIgnoredExtensions
}

// isIgnoredExtension reports whether the URL path ends in a skipped
// extension.
func isIgnoredExtension(rawURL string, extensions []string) bool {
	withoutQuery := rawURL
	if idx := strings.IndexByte(withoutQuery, '?'); idx >= 0 {
		withoutQuery = withoutQuery[:idx]
	}
	ext := strings.ToLower(path.Ext(withoutQuery))
	if ext == "" {
		return false
	}
	return lib.SliceContains(extensions, ext)
}

// skippableScheme reports link targets that can never resolve to a page.
func skippableScheme(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:")
}
