package site

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/routes"
)

var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

const testBaseURL = "https://example.test"

func defaultRoutes(t *testing.T) []routes.Route {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	rs, err := routes.Enumerate(cat, fixedNow)
	if err != nil {
		t.Fatalf("routes.Enumerate() error = %v", err)
	}
	return rs
}

func findRoute(t *testing.T, rs []routes.Route, path string) routes.Route {
	t.Helper()
	for _, r := range rs {
		if r.Path == path {
			return r
		}
	}
	t.Fatalf("route %s not found", path)
	return routes.Route{}
}

func newTestGenerator(dir string) *Generator {
	g := NewGenerator(Options{BaseURL: testBaseURL + "/", SiteName: "TestSite", OutputDir: dir}, nil)
	g.now = func() time.Time { return fixedNow }
	return g
}

func extractJSONLD(t *testing.T, html string) string {
	t.Helper()
	const open = `<script type="application/ld+json">`
	start := strings.Index(html, open)
	if start < 0 {
		return ""
	}
	rest := html[start+len(open):]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		t.Fatalf("unterminated JSON-LD script")
	}
	return rest[:end]
}

func TestStructuredDataShapes(t *testing.T) {
	tests := []struct {
		name      string
		route     routes.Route
		wantNil   bool
		wantArray bool
		wantType  string
	}{
		{
			name:    "no breadcrumbs or faqs",
			route:   routes.Route{Path: "/x/"},
			wantNil: true,
		},
		{
			name: "breadcrumbs only",
			route: routes.Route{Path: "/us/", Breadcrumbs: []routes.Breadcrumb{
				{Name: "US", URL: "/us/"},
			}},
			wantType: "BreadcrumbList",
		},
		{
			name: "faqs only",
			route: routes.Route{Path: "/x/", FAQs: []catalog.FAQ{
				{Question: "Q?", Answer: "A."},
			}},
			wantType: "FAQPage",
		},
		{
			name: "both",
			route: routes.Route{
				Path:        "/x/",
				Breadcrumbs: []routes.Breadcrumb{{Name: "US", URL: "/us/"}},
				FAQs:        []catalog.FAQ{{Question: "Q?", Answer: "A."}},
			},
			wantArray: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := StructuredData(testBaseURL, tt.route)
			if err != nil {
				t.Fatalf("StructuredData() error = %v", err)
			}
			if tt.wantNil {
				if data != nil {
					t.Errorf("StructuredData() = %s, expected nil", data)
				}
				return
			}
			if tt.wantArray {
				var blocks []map[string]any
				if err := json.Unmarshal(data, &blocks); err != nil {
					t.Fatalf("expected JSON array, got %s: %v", data, err)
				}
				if len(blocks) != 2 || blocks[0]["@type"] != "BreadcrumbList" || blocks[1]["@type"] != "FAQPage" {
					t.Errorf("unexpected blocks %v", blocks)
				}
				return
			}
			var block map[string]any
			if err := json.Unmarshal(data, &block); err != nil {
				t.Fatalf("expected JSON object, got %s: %v", data, err)
			}
			if block["@type"] != tt.wantType || block["@context"] != "https://schema.org" {
				t.Errorf("block = %v, expected @type %s", block, tt.wantType)
			}
		})
	}
}

func TestBreadcrumbListPositions(t *testing.T) {
	crumbs := []routes.Breadcrumb{
		{Name: "US", URL: "/us/"},
		{Name: "US Loan Calculators", URL: "/us/loan-calculators/"},
		{Name: "Mortgage Calculator", URL: "/us/loan-calculators/mortgage-calculator/"},
	}
	list := NewBreadcrumbList(testBaseURL+"/", crumbs)
	if list == nil || len(list.ItemListElement) != 3 {
		t.Fatalf("NewBreadcrumbList() = %+v", list)
	}
	for i, item := range list.ItemListElement {
		if item.Position != i+1 {
			t.Errorf("item %d position = %d, expected %d", i, item.Position, i+1)
		}
		if item.Item != testBaseURL+crumbs[i].URL {
			t.Errorf("item %d url = %s, expected absolute %s", i, item.Item, testBaseURL+crumbs[i].URL)
		}
		if item.Type != "ListItem" {
			t.Errorf("item %d type = %s", i, item.Type)
		}
	}

	if NewBreadcrumbList(testBaseURL, nil) != nil {
		t.Errorf("NewBreadcrumbList(nil) should be nil")
	}
	if NewFAQPage(nil) != nil {
		t.Errorf("NewFAQPage(nil) should be nil")
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://fincalculate.com", "/us/", "https://fincalculate.com/us/"},
		{"https://fincalculate.com/", "/us/", "https://fincalculate.com/us/"},
		{"https://fincalculate.com", "sitemap.xml", "https://fincalculate.com/sitemap.xml"},
	}
	for _, tt := range tests {
		if got := AbsoluteURL(tt.base, tt.path); got != tt.want {
			t.Errorf("AbsoluteURL(%q, %q) = %q, expected %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestRenderCalculatorPage(t *testing.T) {
	rs := defaultRoutes(t)
	route := findRoute(t, rs, "/us/loan-calculators/mortgage-calculator/")
	g := newTestGenerator(t.TempDir())

	var buf bytes.Buffer
	if err := g.RenderPage(&buf, route); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	html := buf.String()

	wants := []string{
		`<link rel="canonical" href="https://example.test/us/loan-calculators/mortgage-calculator/">`,
		`<meta property="og:type" content="website">`,
		`<meta property="og:url" content="https://example.test/us/loan-calculators/mortgage-calculator/">`,
		`<meta property="og:site_name" content="TestSite">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<meta name="robots" content="index, follow">`,
		`<h1>US Mortgage Calculator</h1>`,
		`Monthly Payment`,
		`class="primary"`,
		`data-calculator="mortgage-calculator"`,
		`&copy; 2025 TestSite`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	ld := extractJSONLD(t, html)
	var blocks []map[string]any
	if err := json.Unmarshal([]byte(ld), &blocks); err != nil {
		t.Fatalf("JSON-LD is not an array: %v\n%s", err, ld)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected BreadcrumbList and FAQPage, got %d blocks", len(blocks))
	}
	items, _ := blocks[0]["itemListElement"].([]any)
	if len(items) != len(route.Breadcrumbs) {
		t.Errorf("itemListElement has %d items, expected %d", len(items), len(route.Breadcrumbs))
	}
}

func TestRenderIndexPageSingleBlock(t *testing.T) {
	rs := defaultRoutes(t)
	g := newTestGenerator(t.TempDir())

	var buf bytes.Buffer
	if err := g.RenderPage(&buf, rs[0]); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	html := buf.String()

	var block map[string]any
	if err := json.Unmarshal([]byte(extractJSONLD(t, html)), &block); err != nil {
		t.Fatalf("index JSON-LD should be a single object: %v", err)
	}
	if block["@type"] != "BreadcrumbList" {
		t.Errorf("index JSON-LD @type = %v", block["@type"])
	}
	if !strings.Contains(html, `href="/us/tax-calculators/"`) {
		t.Errorf("index page does not link to categories")
	}
	if strings.Contains(html, "<form") {
		t.Errorf("index page should not render a calculator form")
	}
}

func TestRenderPageWithoutStructuredData(t *testing.T) {
	g := newTestGenerator(t.TempDir())
	var buf bytes.Buffer
	route := routes.Route{Path: "/bare/", Heading: "Bare", Meta: routes.Meta{Title: "Bare"}}
	if err := g.RenderPage(&buf, route); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if strings.Contains(buf.String(), "application/ld+json") {
		t.Errorf("page without breadcrumbs or FAQs should omit JSON-LD")
	}
}

func TestRenderStatePage(t *testing.T) {
	rs := defaultRoutes(t)
	route := findRoute(t, rs, "/us/loan-calculators/mortgage-calculator/texas/")
	g := newTestGenerator(t.TempDir())

	var buf bytes.Buffer
	if err := g.RenderPage(&buf, route); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"Texas Mortgage Calculator",
		"Property Taxes in Texas",
		"Average Home in Texas",
		`name="propertyTax" type="number" value="476"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("state page missing %q", want)
		}
	}
}

func TestGenerate(t *testing.T) {
	rs := defaultRoutes(t)
	dir := t.TempDir()
	g := newTestGenerator(dir)

	if err := g.Generate(rs); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, r := range rs {
		if _, err := os.Stat(PagePath(dir, r.Path)); err != nil {
			t.Errorf("page for %s not written: %v", r.Path, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "sitemap.xml"))
	if err != nil {
		t.Fatalf("sitemap.xml not written: %v", err)
	}
	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap.xml is not valid XML: %v", err)
	}
	if len(set.URLs) != len(rs) {
		t.Errorf("sitemap lists %d urls, expected %d", len(set.URLs), len(rs))
	}
	if set.URLs[0].Loc != testBaseURL+"/us/" || set.URLs[0].Priority != "1.0" {
		t.Errorf("first sitemap url = %+v", set.URLs[0])
	}
	if set.URLs[0].LastMod != "2025-06-01" {
		t.Errorf("lastmod = %s, expected 2025-06-01", set.URLs[0].LastMod)
	}

	robots, err := os.ReadFile(filepath.Join(dir, "robots.txt"))
	if err != nil {
		t.Fatalf("robots.txt not written: %v", err)
	}
	if !strings.Contains(string(robots), "Sitemap: "+testBaseURL+"/sitemap.xml") {
		t.Errorf("robots.txt = %q", robots)
	}
}

func TestPagePath(t *testing.T) {
	got := PagePath("dist", "/us/loan-calculators/")
	want := filepath.Join("dist", "us", "loan-calculators", "index.html")
	if got != want {
		t.Errorf("PagePath() = %s, expected %s", got, want)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := NewGenerator(Options{}, nil).Options()
	if opts.BaseURL != "https://fincalculate.com" || opts.SiteName != "FinCalculate" || opts.OutputDir != "dist" {
		t.Errorf("defaults = %+v", opts)
	}
}
