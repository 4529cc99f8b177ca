// Package site renders enumerated routes into a static HTML site.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/routes"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/format"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/page.html.tmpl"))

// Options controls where and how the site is written.
type Options struct {
	BaseURL   string
	SiteName  string
	OutputDir string
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = constants.DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.SiteName == "" {
		o.SiteName = constants.DefaultSiteName
	}
	if o.OutputDir == "" {
		o.OutputDir = constants.DefaultOutputDir
	}
	return o
}

// Generator writes one index.html per route plus sitemap.xml and robots.txt.
type Generator struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a Generator. A nil logger disables logging.
func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{opts: opts.withDefaults(), logger: logger, now: time.Now}
}

// Options returns the effective options after defaults.
func (g *Generator) Options() Options {
	return g.opts
}

type pageData struct {
	Route              routes.Route
	Canonical          string
	SiteName           string
	Keywords           string
	StructuredData     template.JS
	Inputs             []inputView
	ExampleTitle       string
	ExampleDescription string
	Results            []formula.Result
	Saturated          bool
	HowItWorks         []string
	Year               int
}

type inputView struct {
	Name     string
	Label    string
	Hint     string
	Required bool
	Value    string
	Min      string
	Max      string
	Step     string
	Options  []optionView
}

type optionView struct {
	Value string
	Label string
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return format.Number(*v)
}

func inputViews(inputs []catalog.Input, values formula.Values) []inputView {
	views := make([]inputView, 0, len(inputs))
	for _, in := range inputs {
		view := inputView{
			Name:     in.Name,
			Label:    in.Label,
			Hint:     in.Hint,
			Required: in.Required,
			Value:    format.Number(values.Get(in.Name)),
			Min:      optionalNumber(in.Min),
			Max:      optionalNumber(in.Max),
			Step:     optionalNumber(in.Step),
		}
		for _, opt := range in.Options {
			view.Options = append(view.Options, optionView{Value: format.Number(opt.Value), Label: opt.Label})
		}
		views = append(views, view)
	}
	return views
}

// RenderPage writes the HTML document of a single route.
func (g *Generator) RenderPage(w io.Writer, route routes.Route) error {
	structured, err := StructuredData(g.opts.BaseURL, route)
	if err != nil {
		return err
	}

	data := pageData{
		Route:          route,
		Canonical:      AbsoluteURL(g.opts.BaseURL, route.Path),
		SiteName:       g.opts.SiteName,
		Keywords:       strings.Join(route.Meta.Keywords, ", "),
		StructuredData: template.JS(structured),
		Year:           g.now().Year(),
	}
	if route.Outcome != nil {
		data.Results = route.Outcome.Results
		data.Saturated = route.Outcome.Saturated
		data.ExampleTitle = "Example Calculation"
	}
	if calc := route.Calculator; calc != nil {
		data.Inputs = inputViews(calc.Inputs, route.Values)
		data.HowItWorks = calc.HowItWorks
		if route.Type == routes.TypeCalculator {
			if calc.Example.Title != "" {
				data.ExampleTitle = calc.Example.Title
			}
			data.ExampleDescription = calc.Example.Description
		}
	}
	if route.State != nil {
		data.ExampleTitle = fmt.Sprintf("Average Home in %s", route.State.State)
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", route.Path, err)
	}
	return nil
}

// PagePath is the file a route is written to below the output directory.
func PagePath(outputDir, routePath string) string {
	rel := strings.Trim(routePath, "/")
	return filepath.Join(outputDir, filepath.FromSlash(rel), "index.html")
}

// Generate writes every route, the sitemap and robots.txt.
func (g *Generator) Generate(rs []routes.Route) error {
	start := g.now()
	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", g.opts.OutputDir, err)
	}

	for _, route := range rs {
		var buf bytes.Buffer
		if err := g.RenderPage(&buf, route); err != nil {
			return err
		}
		target := PagePath(g.opts.OutputDir, route.Path)
		if err := writeFile(target, buf.Bytes()); err != nil {
			return err
		}
		g.logger.Debug("generated page",
			zap.String("op", "site.Generate"),
			zap.String("path", route.Path),
			zap.String("file", target),
		)
	}

	var sitemap bytes.Buffer
	if err := WriteSitemap(&sitemap, g.opts.BaseURL, rs, start); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(g.opts.OutputDir, "sitemap.xml"), sitemap.Bytes()); err != nil {
		return err
	}

	var robots bytes.Buffer
	if err := WriteRobots(&robots, g.opts.BaseURL); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(g.opts.OutputDir, "robots.txt"), robots.Bytes()); err != nil {
		return err
	}

	g.logger.Info("generated site",
		zap.String("op", "site.Generate"),
		zap.String("outputDir", g.opts.OutputDir),
		zap.Int("pages", len(rs)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
