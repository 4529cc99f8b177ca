// Package routes enumerates every page of the static site from the catalog.
package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"go.uber.org/zap"
)

// Type distinguishes the four kinds of page.
type Type int

const (
	TypeIndex Type = iota
	TypeCategory
	TypeCalculator
	TypeState
)

func (t Type) String() string {
	switch t {
	case TypeIndex:
		return "index"
	case TypeCategory:
		return "category"
	case TypeCalculator:
		return "calculator"
	case TypeState:
		return "state"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Breadcrumb is one step of the root-to-leaf navigation chain.
type Breadcrumb struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Meta is the SEO metadata of a page.
type Meta struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	OGTitle       string   `json:"ogTitle"`
	OGDescription string   `json:"ogDescription"`
}

// Route is everything needed to render one page.
type Route struct {
	Path        string           `json:"path"`
	Type        Type             `json:"type"`
	Heading     string           `json:"heading"`
	Intro       string           `json:"intro,omitempty"`
	CategoryKey string           `json:"category,omitempty"`
	Kind        formula.Kind     `json:"calculator,omitempty"`
	StateKey    string           `json:"state,omitempty"`
	Breadcrumbs []Breadcrumb     `json:"breadcrumbs"`
	Meta        Meta             `json:"meta"`
	FAQs        []catalog.FAQ    `json:"faqs,omitempty"`
	Related     []catalog.Link   `json:"related,omitempty"`
	Values      formula.Values   `json:"values,omitempty"`
	Outcome     *formula.Outcome `json:"example,omitempty"`

	Category   *catalog.Category     `json:"-"`
	Calculator *catalog.Calculator   `json:"-"`
	State      *catalog.StateProfile `json:"-"`
}

var indexKeywords = []string{
	"financial calculator",
	"loan calculator",
	"mortgage calculator",
	"tax calculator",
	"investment calculator",
	"retirement calculator",
}

// Calculators linked from every state mortgage page after the national calculator.
var stateRelatedKinds = []formula.Kind{
	formula.KindPropertyTax,
	formula.KindHomeEquity,
	formula.KindBudget,
	formula.KindRetirementSavings,
}

// Enumerator builds routes from a catalog.
type Enumerator struct {
	catalog   *catalog.Catalog
	siteName  string
	evaluator *formula.Evaluator
	logger    *zap.Logger
}

// NewEnumerator creates an Enumerator. A nil logger disables logging.
func NewEnumerator(cat *catalog.Catalog, logger *zap.Logger) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{catalog: cat, siteName: cat.SiteName, evaluator: formula.NewEvaluator(logger), logger: logger}
}

// WithSiteName brands page titles with name instead of the catalog's site
// name. An empty name keeps the current one.
func (e *Enumerator) WithSiteName(name string) *Enumerator {
	if name = strings.TrimSpace(name); name != "" {
		e.siteName = name
	}
	return e
}

// Enumerate returns every route of the catalog without logging.
func Enumerate(cat *catalog.Catalog, now time.Time) ([]Route, error) {
	return NewEnumerator(cat, nil).Enumerate(now)
}

// CategoryPath is the URL of a category page.
func CategoryPath(categoryKey string) string {
	return constants.RootPath + categoryKey + "/"
}

// CalculatorPath is the URL of a calculator page.
func CalculatorPath(categoryKey string, kind formula.Kind) string {
	return CategoryPath(categoryKey) + kind.Key() + "/"
}

// StatePath is the URL of a state mortgage page.
func StatePath(categoryKey, stateKey string) string {
	return CalculatorPath(categoryKey, formula.KindMortgage) + stateKey + "/"
}

// LeafTitle strips the market prefix from a calculator title for breadcrumbs.
func LeafTitle(title string) string {
	return strings.TrimPrefix(title, "US ")
}

// Enumerate walks the catalog in declaration order: the index, then
// categories, then calculators, then states. Example outcomes are dated
// relative to now.
func (e *Enumerator) Enumerate(now time.Time) ([]Route, error) {
	cat := e.catalog
	routes := make([]Route, 0, 1+len(cat.Categories)+cat.CalculatorCount()+len(cat.States))
	root := Breadcrumb{Name: "US", URL: constants.RootPath}

	routes = append(routes, e.indexRoute(root))

	for i := range cat.Categories {
		routes = append(routes, e.categoryRoute(root, &cat.Categories[i]))
	}

	for i := range cat.Categories {
		category := &cat.Categories[i]
		for _, kind := range category.Calculators {
			calc, ok := cat.Calculator(kind)
			if !ok {
				return nil, fmt.Errorf("category %s lists undefined calculator %s", category.Key, kind.Key())
			}
			routes = append(routes, e.calculatorRoute(root, category, calc, now))
		}
	}

	if len(cat.States) > 0 {
		category, ok := cat.CategoryOf(formula.KindMortgage)
		if !ok {
			return nil, fmt.Errorf("state pages require a category listing %s", formula.KindMortgage.Key())
		}
		mortgage, _ := cat.Calculator(formula.KindMortgage)
		for i := range cat.States {
			routes = append(routes, e.stateRoute(root, category, mortgage, &cat.States[i], now))
		}
	}

	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if seen[r.Path] {
			return nil, fmt.Errorf("duplicate route path %s", r.Path)
		}
		seen[r.Path] = true
	}

	e.logger.Info("enumerated routes",
		zap.String("op", "routes.Enumerate"),
		zap.Int("routes", len(routes)),
		zap.Int("categories", len(cat.Categories)),
		zap.Int("states", len(cat.States)),
	)
	return routes, nil
}

func (e *Enumerator) indexRoute(root Breadcrumb) Route {
	cat := e.catalog
	related := make([]catalog.Link, 0, len(cat.Categories))
	for _, category := range cat.Categories {
		related = append(related, catalog.Link{
			Title:       category.Title,
			Description: category.Description,
			Href:        CategoryPath(category.Key),
		})
	}

	return Route{
		Path:        constants.RootPath,
		Type:        TypeIndex,
		Heading:     "US Financial Calculators",
		Breadcrumbs: []Breadcrumb{root},
		Meta: Meta{
			Title:         fmt.Sprintf("%s | %s", cat.Index.Title, e.siteName),
			Description:   cat.Index.Description,
			Keywords:      indexKeywords,
			OGTitle:       cat.Index.Title,
			OGDescription: cat.Index.Description,
		},
		Related: related,
	}
}

func (e *Enumerator) categoryRoute(root Breadcrumb, category *catalog.Category) Route {
	path := CategoryPath(category.Key)
	related := make([]catalog.Link, 0, len(category.Calculators))
	for _, kind := range category.Calculators {
		if calc, ok := e.catalog.Calculator(kind); ok {
			related = append(related, catalog.Link{
				Title:       calc.Title,
				Description: calc.Description,
				Href:        CalculatorPath(category.Key, kind),
			})
		}
	}

	return Route{
		Path:        path,
		Type:        TypeCategory,
		Heading:     category.Title,
		Intro:       category.Description,
		CategoryKey: category.Key,
		Category:    category,
		Breadcrumbs: []Breadcrumb{root, {Name: category.Title, URL: path}},
		Meta: Meta{
			Title:         fmt.Sprintf("%s | %s", category.Title, e.siteName),
			Description:   category.Description,
			Keywords:      []string{strings.ToLower(category.Title), "financial calculator", "free calculator"},
			OGTitle:       category.Title,
			OGDescription: category.Description,
		},
		Related: related,
	}
}

func (e *Enumerator) calculatorRoute(root Breadcrumb, category *catalog.Category, calc *catalog.Calculator, now time.Time) Route {
	path := CalculatorPath(category.Key, calc.Kind)
	values := calc.ExampleValues()
	outcome := e.evaluator.Evaluate(calc.Kind, values, now)

	meta := Meta{
		Title:         calc.SEO.Title,
		Description:   calc.SEO.Description,
		Keywords:      calc.SEO.Keywords,
		OGTitle:       calc.SEO.OGTitle,
		OGDescription: calc.SEO.OGDescription,
	}
	if meta.Title == "" {
		meta.Title = fmt.Sprintf("%s | %s", calc.Title, e.siteName)
	}
	if meta.Description == "" {
		meta.Description = calc.Description
	}
	if meta.OGTitle == "" {
		meta.OGTitle = meta.Title
	}
	if meta.OGDescription == "" {
		meta.OGDescription = meta.Description
	}

	return Route{
		Path:        path,
		Type:        TypeCalculator,
		Heading:     calc.Title,
		Intro:       calc.Intro,
		CategoryKey: category.Key,
		Kind:        calc.Kind,
		Category:    category,
		Calculator:  calc,
		Breadcrumbs: []Breadcrumb{
			root,
			{Name: category.Title, URL: CategoryPath(category.Key)},
			{Name: LeafTitle(calc.Title), URL: path},
		},
		Meta:    meta,
		FAQs:    calc.FAQs,
		Related: calc.Related,
		Values:  values,
		Outcome: &outcome,
	}
}

func (e *Enumerator) stateRoute(root Breadcrumb, category *catalog.Category, mortgage *catalog.Calculator, state *catalog.StateProfile, now time.Time) Route {
	path := StatePath(category.Key, state.Key)
	values := state.ExampleValues()
	outcome := e.evaluator.Evaluate(formula.KindMortgage, values, now)

	faqs := make([]catalog.FAQ, 0, len(state.FAQs)+len(e.catalog.StateFAQs))
	faqs = append(faqs, state.FAQs...)
	faqs = append(faqs, e.catalog.StateFAQs...)

	related := []catalog.Link{{
		Title:       "National Mortgage Calculator",
		Description: "US mortgage calculator with all options",
		Href:        CalculatorPath(category.Key, formula.KindMortgage),
	}}
	for _, kind := range stateRelatedKinds {
		calc, ok := e.catalog.Calculator(kind)
		if !ok {
			continue
		}
		if relatedCategory, ok := e.catalog.CategoryOf(kind); ok {
			related = append(related, catalog.Link{
				Title:       LeafTitle(calc.Title),
				Description: calc.Description,
				Href:        CalculatorPath(relatedCategory.Key, kind),
			})
		}
	}

	return Route{
		Path:        path,
		Type:        TypeState,
		Heading:     fmt.Sprintf("%s Mortgage Calculator", state.State),
		Intro:       state.Intro,
		CategoryKey: category.Key,
		Kind:        formula.KindMortgage,
		StateKey:    state.Key,
		Category:    category,
		Calculator:  mortgage,
		State:       state,
		Breadcrumbs: []Breadcrumb{
			root,
			{Name: category.Title, URL: CategoryPath(category.Key)},
			{Name: LeafTitle(mortgage.Title), URL: CalculatorPath(category.Key, formula.KindMortgage)},
			{Name: state.State, URL: path},
		},
		Meta: Meta{
			Title:       fmt.Sprintf("%s Mortgage Calculator | Property Taxes & Payments", state.State),
			Description: fmt.Sprintf("Calculate mortgage payments in %s including property taxes. Free calculator with state-specific rates and information.", state.State),
			Keywords: []string{
				strings.ToLower(state.State) + " mortgage calculator",
				strings.ToLower(state.Code) + " mortgage",
				"property tax calculator",
				"home loan calculator",
			},
			OGTitle:       fmt.Sprintf("%s Mortgage Calculator", state.State),
			OGDescription: fmt.Sprintf("Calculate mortgage payments in %s with state-specific property tax rates.", state.State),
		},
		FAQs:    faqs,
		Related: related,
		Values:  values,
		Outcome: &outcome,
	}
}
