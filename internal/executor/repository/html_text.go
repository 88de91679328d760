package repository

import (
	"strings"

	"stock-ai-predictor/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// htmlToText returns the visible text of an HTML fragment with whitespace collapsed.
func htmlToText(html string) string {
	if !strings.Contains(html, "<") {
		return utils.SafeText(utils.CollapseWhitespace(html))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return utils.SafeText(utils.CollapseWhitespace(html))
	}
	doc.Find("script, style, noscript").Remove()
	return utils.SafeText(utils.CollapseWhitespace(doc.Text()))
}
