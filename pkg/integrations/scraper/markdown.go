package scraper

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/matzehuels/bottlenose/pkg/errors"
)

// Markdown converts an HTML page to Markdown. It can be used as the parser
// of an integrations.Client.
func Markdown(body []byte) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeParse, err, "convert HTML to markdown")
	}
	return md, nil
}
