// Package sitemap renders the sitemaps.org document for the site's static
// pages.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Namespace is the sitemaps.org 0.9 schema.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Entry is one static page.
type Entry struct {
	Path       string
	ChangeFreq string
	Priority   float64
}

// StaticPages lists the pages published in the sitemap.
var StaticPages = []Entry{
	{Path: "/", ChangeFreq: "daily", Priority: 1.0},
	{Path: "/all-cars", ChangeFreq: "weekly", Priority: 0.8},
	{Path: "/gallery", ChangeFreq: "weekly", Priority: 0.7},
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Build renders entries as a sitemap rooted at baseURL (scheme and host,
// trailing slash optional), stamping every entry with now's date.
func Build(baseURL string, entries []Entry, now time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("empty base URL")
	}

	doc := urlset{Xmlns: Namespace, URLs: make([]url, 0, len(entries))}
	lastMod := now.Format(time.DateOnly)

	for _, e := range entries {
		doc.URLs = append(doc.URLs, url{
			Loc:        base + e.Path,
			LastMod:    lastMod,
			ChangeFreq: e.ChangeFreq,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

// Write builds the sitemap and writes it to w.
func Write(w io.Writer, baseURL string, entries []Entry, now time.Time) error {
	data, err := Build(baseURL, entries, now)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
