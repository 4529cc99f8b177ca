package site

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/fincalculate/internal/routes"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Index and category pages rank above leaf pages.
func priority(t routes.Type) string {
	switch t {
	case routes.TypeIndex:
		return "1.0"
	case routes.TypeCategory:
		return "0.8"
	case routes.TypeCalculator:
		return "0.7"
	default:
		return "0.6"
	}
}

// WriteSitemap writes a sitemap.xml listing every route.
func WriteSitemap(w io.Writer, baseURL string, rs []routes.Route, lastMod time.Time) error {
	set := urlSet{Xmlns: sitemapNamespace, URLs: make([]sitemapURL, 0, len(rs))}
	stamp := ""
	if !lastMod.IsZero() {
		stamp = lastMod.Format(time.DateOnly)
	}
	for _, r := range rs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        AbsoluteURL(baseURL, r.Path),
			LastMod:    stamp,
			ChangeFreq: "monthly",
			Priority:   priority(r.Type),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write sitemap header: %w", err)
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(set); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	return nil
}

// WriteRobots writes a robots.txt that allows everything and points at the sitemap.
func WriteRobots(w io.Writer, baseURL string) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s\n", AbsoluteURL(baseURL, "/sitemap.xml"))
	if err != nil {
		return fmt.Errorf("failed to write robots.txt: %w", err)
	}
	return nil
}
