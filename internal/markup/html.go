package markup

import (
	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Converter turns HTML-ish legacy post bodies into Markdown. It only
// handles structural HTML (paragraphs, emphasis, lists, links,
// blockquotes); the bracket-tag dialect survives conversion untouched and
// is handled afterwards by the Rewriter.
type Converter struct {
	conv *md.Converter
}

// NewConverter creates a Converter with default conversion rules
func NewConverter() *Converter {
	return &Converter{conv: md.NewConverter("", true, nil)}
}

// Run converts an HTML fragment to Markdown. Conversion failures degrade
// to the raw input so a malformed body never drops a post.
func (c *Converter) Run(body string) (string, error) {
	out, err := c.conv.ConvertString(body)
	if err != nil {
		return body, err
	}
	return out, nil
}
