package sanitize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// metadataPrefixes are the field lines that must stay isolated on their
// own Markdown line after conversion. Conversion engines may otherwise
// collapse adjacent inline content onto them.
var metadataPrefixes = []string{"Name:", "Due:", "Email Link:"}

// lineSentinel is a zero-width space used to force a paragraph break
// after metadata lines. The invisible-character strip removes it again,
// leaving only the blank line.
const lineSentinel = "​"

// invisibleReplacer strips Unicode formatting characters that survive
// HTML conversion: zero-width space, figure space, combining grapheme
// joiner, and soft hyphen.
var invisibleReplacer = strings.NewReplacer(
	"​", "",
	" ", "",
	"͏", "",
	"­", "",
)

// excessNewlines matches runs of three or more newlines.
var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Sanitizer turns raw marketing/transactional email HTML into Markdown,
// stripping tracking markup and repairing known-broken image URLs along
// the way.
type Sanitizer struct {
	conv *converter.Converter
	log  *zap.Logger
}

// New creates a Sanitizer. A nil logger disables tracing.
func New(log *zap.Logger) *Sanitizer {
	if log == nil {
		log = zap.NewNop()
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	conv.Register.RendererFor(
		"img", converter.TagTypeInline, renderImage, converter.PriorityEarly,
	)

	return &Sanitizer{
		conv: conv,
		log:  log.Named("sanitize"),
	}
}

// Sanitize converts the raw HTML body into cleaned Markdown. Malformed
// HTML is handled best-effort; missing attributes are treated as empty.
func (s *Sanitizer) Sanitize(htmlBody string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("style, script, head").Remove()

	removed := 0
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if strings.Contains(src, "pixel") || strings.Contains(src, "imp") {
			img.Remove()
			removed++
			return
		}
		if isTrackingImage(img, src) {
			img.Remove()
			removed++
		}
	})
	if removed > 0 {
		s.log.Debug("removed tracking images", zap.Int("count", removed))
	}

	isolateMetadataLines(doc)

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serializing html: %w", err)
	}

	markdown, err := s.conv.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}

	markdown = invisibleReplacer.Replace(markdown)
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")

	return strings.TrimSpace(markdown), nil
}

// isTrackingImage reports whether an image matches any of the tracking
// heuristics: hidden beacon dimensions, decoy alt/title text, a known
// tracking host or path, or an alt-less image inside unsubscribe
// boilerplate.
func isTrackingImage(img *goquery.Selection, src string) bool {
	lowerSrc := strings.ToLower(src)
	for _, domain := range trackingDomains {
		if strings.Contains(lowerSrc, domain) {
			return true
		}
	}
	for _, pattern := range trackingPatterns {
		if strings.Contains(lowerSrc, pattern) {
			return true
		}
	}

	width, _ := img.Attr("width")
	height, _ := img.Attr("height")
	if (width == "1" && height == "1") || (width == "0" && height == "0") {
		return true
	}

	alt, _ := img.Attr("alt")
	title, _ := img.Attr("title")
	for _, decoy := range decoyAltValues {
		if strings.EqualFold(strings.TrimSpace(alt), decoy) ||
			strings.EqualFold(strings.TrimSpace(title), decoy) {
			return true
		}
	}

	if strings.TrimSpace(alt) == "" && insideUnsubscribeBlock(img) {
		return true
	}

	return false
}

// insideUnsubscribeBlock reports whether any ancestor of the image
// contains a link whose text includes the literal word "Unsubscribe".
func insideUnsubscribeBlock(img *goquery.Selection) bool {
	found := false
	img.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		parent.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if strings.Contains(a.Text(), "Unsubscribe") {
				found = true
			}
			return !found
		})
		return !found
	})
	return found
}

// isolateMetadataLines inserts a sentinel paragraph after every
// dir="auto" paragraph that opens with a metadata field label.
func isolateMetadataLines(doc *goquery.Document) {
	doc.Find(`p[dir="auto"]`).Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		for _, prefix := range metadataPrefixes {
			if strings.HasPrefix(text, prefix) {
				p.AfterHtml("<p>" + lineSentinel + "</p>")
				return
			}
		}
	})
}

// renderImage is the Markdown rendering rule for img elements. Tracking
// sources are dropped silently; surviving sources are repaired before
// emitting an inline image reference.
func renderImage(
	_ converter.Context, w converter.Writer, n *html.Node,
) converter.RenderStatus {
	src := nodeAttr(n, "src")
	alt := nodeAttr(n, "alt")

	lowerSrc := strings.ToLower(src)
	for _, pattern := range trackingPatterns {
		if strings.Contains(lowerSrc, pattern) {
			return converter.RenderSuccess
		}
	}

	src = RepairImageSource(src)

	if src == "" || strings.Contains(src, "undefined") {
		return converter.RenderSuccess
	}

	w.WriteString("![" + alt + "](" + src + ")")
	return converter.RenderSuccess
}

// RepairImageSource fixes two known URL corruptions seen in marketing
// email image sources: a mangled quality query parameter, and CDN URLs
// served without a file extension.
func RepairImageSource(src string) string {
	if src == "" {
		return src
	}

	src = strings.ReplaceAll(src, "quality€", "quality=90")

	parsed, err := url.Parse(src)
	if err != nil {
		return src
	}

	ext, known := cdnDefaultExtensions[strings.ToLower(parsed.Hostname())]
	if !known || hasImageExtension(parsed.Path) {
		return src
	}

	parsed.Path += ext
	return parsed.String()
}

// hasImageExtension reports whether the URL path already ends in a
// recognized image file suffix.
func hasImageExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// nodeAttr returns the value of the named attribute, or "" when absent.
func nodeAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
