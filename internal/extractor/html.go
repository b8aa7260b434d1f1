package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Uploaded pages have no origin; readability only uses the URL to resolve
// relative links.
var uploadURL = &url.URL{Scheme: "file", Path: "/upload.html"}

func ExtractHTML(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("empty HTML file")
	}

	article, err := readability.FromReader(bytes.NewReader(data), uploadURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	if title := strings.TrimSpace(article.Title); title != "" {
		parts = append(parts, title)
	}
	if body := cleanText(article.TextContent); body != "" {
		parts = append(parts, body)
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from HTML")
	}
	return text, nil
}
