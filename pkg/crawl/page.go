package crawl

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	cregex "github.com/mingrammer/commonregex"
	"github.com/rs/zerolog/log"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/scan"
)

type pageResult struct {
	page  scan.DiscoveredPage
	links []string
}

// fetchPage retrieves and classifies one frontier URL. Network errors, bad
// statuses and non-HTML responses yield an unreachable page record that the
// crawler never expands.
func (c *Crawler) fetchPage(ctx context.Context, item crawlItem) pageResult {
	unreachable := pageResult{page: scan.DiscoveredPage{
		URL:         item.url,
		Type:        scan.PageTypeOther,
		Depth:       item.depth,
		Unreachable: true,
	}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.url, nil)
	if err != nil {
		return unreachable
	}
	req.Header.Set("User-Agent", c.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, values := range c.options.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", item.url).Msg("Page fetch failed")
		return unreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Debug().Str("url", item.url).Int("status_code", resp.StatusCode).Msg("Page fetch returned error status")
		return unreachable
	}
	if contentType := resp.Header.Get("Content-Type"); contentType != "" && !strings.Contains(contentType, "html") {
		log.Debug().Str("url", item.url).Str("content_type", contentType).Msg("Skipping non-HTML response")
		return unreachable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return unreachable
	}

	// Redirects may land on a different canonical URL; record that one.
	finalURL := item.url
	base := resp.Request.URL
	if base != nil {
		if canonical, err := lib.CanonicalizeURL(base.String()); err == nil {
			finalURL = canonical
		}
	}

	return c.buildPage(item, finalURL, base, resp.Header, body)
}

func (c *Crawler) buildPage(item crawlItem, finalURL string, base *url.URL, header http.Header, body []byte) pageResult {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Debug().Err(err).Str("url", finalURL).Msg("Cannot parse page HTML")
		return pageResult{page: scan.DiscoveredPage{
			URL:         finalURL,
			Type:        scan.PageTypeOther,
			Depth:       item.depth,
			Unreachable: true,
		}}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	elements := scan.ElementCounts{
		Forms:  doc.Find("form").Length(),
		Inputs: doc.Find("input, select, textarea").Length(),
		Images: doc.Find("img").Length(),
		Links:  doc.Find("a[href]").Length(),
	}

	text := doc.Text()
	hasContact := len(cregex.Emails(text)) > 0 || len(cregex.Phones(text)) > 0

	pageType := inferPageType(finalURL, title, elements, hasContact)
	page := scan.DiscoveredPage{
		URL:          finalURL,
		Title:        title,
		Type:         pageType,
		Priority:     pagePriority(pageType, item.depth, elements, hasContact),
		Elements:     elements,
		Depth:        item.depth,
		Technologies: c.fingerprint(header, body),
		HasContact:   hasContact,
	}

	return pageResult{page: page, links: c.extractLinks(doc, base, string(body))}
}

// extractLinks collects candidate frontier URLs: anchor hrefs resolved
// against the final URL, plus absolute URLs mined from inline script and
// text. Output is canonical, unique and stripped of assets.
func (c *Crawler) extractLinks(doc *goquery.Document, base *url.URL, body string) []string {
	seen := make(map[string]bool)
	var links []string

	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || lib.IsFragmentOnly(raw) || skippableScheme(raw) {
			return
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return
		}
		resolved := ref
		if base != nil {
			resolved = base.ResolveReference(ref)
		}
		canonical, err := lib.CanonicalizeURL(resolved.String())
		if err != nil || !lib.IsWebURL(canonical) {
			return
		}
		if isIgnoredExtension(canonical, c.ignored) {
			return
		}
		if !seen[canonical] {
			seen[canonical] = true
			links = append(links, canonical)
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})
	for _, mined := range c.urlRegex.FindAllString(body, -1) {
		add(mined)
	}
	return links
}

func (c *Crawler) fingerprint(header http.Header, body []byte) []string {
	if c.wappalyzer == nil {
		return nil
	}
	matches := c.wappalyzer.Fingerprint(header, body)
	if len(matches) == 0 {
		return nil
	}
	technologies := make([]string, 0, len(matches))
	for name := range matches {
		technologies = append(technologies, name)
	}
	sort.Strings(technologies)
	return technologies
}

// inferPageType classifies a page from its URL path and title, refined by
// contact data found in the text.
func inferPageType(pageURL, title string, elements scan.ElementCounts, hasContact bool) scan.PageType {
	parsedPath := ""
	if u, err := url.Parse(pageURL); err == nil {
		parsedPath = strings.ToLower(u.Path)
	}
	haystack := parsedPath + " " + strings.ToLower(title)

	switch {
	case parsedPath == "" || parsedPath == "/":
		return scan.PageTypeHomepage
	case containsAny(haystack, "contact", "kontakt", "support"):
		return scan.PageTypeContact
	case containsAny(haystack, "privacy", "terms", "legal", "imprint", "impressum", "cookie", "accessibility"):
		return scan.PageTypeLegal
	case containsAny(haystack, "product", "shop", "store", "pricing", "/item"):
		return scan.PageTypeProduct
	case containsAny(haystack, "blog", "news", "article", "post", "story"):
		if lib.CalculateURLDepth(pageURL) <= 1 {
			return scan.PageTypeListing
		}
		return scan.PageTypeArticle
	case containsAny(haystack, "category", "catalog", "collection", "search", "archive", "/list"):
		return scan.PageTypeListing
	case elements.Forms > 0:
		return scan.PageTypeForm
	case hasContact:
		return scan.PageTypeContact
	default:
		return scan.PageTypeOther
	}
}

// pagePriority is a weighted sum over the signals the selector ranks by:
// homepage, forms, crawl depth and element density.
func pagePriority(pageType scan.PageType, depth int, elements scan.ElementCounts, hasContact bool) int {
	priority := 0
	if pageType == scan.PageTypeHomepage {
		priority += 100
	}
	if elements.Forms > 0 {
		priority += 30
	}
	if hasContact {
		priority += 5
	}
	priority -= 15 * depth
	priority += min(elements.Inputs, 10)
	priority += min(elements.Images/5, 10)
	priority += min(elements.Links/10, 10)
	if priority < 0 {
		priority = 0
	}
	return priority
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
