// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Page holds the readable content extracted from a web page.
type Page struct {
	URL       string `json:"url" yaml:"url"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	WordCount int    `json:"word_count" yaml:"word_count"`

	// Error records a scrape failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Success reports whether the page was scraped without error.
func (p Page) Success() bool { return p.Error == "" }

// PageMetadata holds standard and Open Graph meta tags from a page head.
type PageMetadata struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Author        string `json:"author,omitempty" yaml:"author,omitempty"`
	OGTitle       string `json:"og_title,omitempty" yaml:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty" yaml:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty" yaml:"og_image,omitempty"`
}
