package site

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/routes"
)

const schemaContext = "https://schema.org"

// BreadcrumbList is the schema.org navigation trail of a page.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem is one breadcrumb. Position starts at 1 and Item is absolute.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// FAQPage is the schema.org FAQ block of a page.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// Question is one FAQ entry.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is the accepted answer of a Question.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// AbsoluteURL joins the site origin and a root-relative path.
func AbsoluteURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// NewBreadcrumbList converts breadcrumbs to schema.org form, or nil when empty.
func NewBreadcrumbList(baseURL string, crumbs []routes.Breadcrumb) *BreadcrumbList {
	if len(crumbs) == 0 {
		return nil
	}
	items := make([]ListItem, len(crumbs))
	for i, crumb := range crumbs {
		items[i] = ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     crumb.Name,
			Item:     AbsoluteURL(baseURL, crumb.URL),
		}
	}
	return &BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

// NewFAQPage converts FAQs to schema.org form, or nil when empty.
func NewFAQPage(faqs []catalog.FAQ) *FAQPage {
	if len(faqs) == 0 {
		return nil
	}
	questions := make([]Question, len(faqs))
	for i, faq := range faqs {
		questions[i] = Question{
			Type:           "Question",
			Name:           faq.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: faq.Answer},
		}
	}
	return &FAQPage{Context: schemaContext, Type: "FAQPage", MainEntity: questions}
}

// StructuredData encodes the JSON-LD payload of a route. A single block is
// emitted as an object, two blocks as an array. It returns nil when the route
// has neither breadcrumbs nor FAQs.
func StructuredData(baseURL string, route routes.Route) ([]byte, error) {
	var blocks []any
	if list := NewBreadcrumbList(baseURL, route.Breadcrumbs); list != nil {
		blocks = append(blocks, list)
	}
	if faq := NewFAQPage(route.FAQs); faq != nil {
		blocks = append(blocks, faq)
	}

	var payload any
	switch len(blocks) {
	case 0:
		return nil, nil
	case 1:
		payload = blocks[0]
	default:
		payload = blocks
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structured data for %s: %w", route.Path, err)
	}
	return data, nil
}
