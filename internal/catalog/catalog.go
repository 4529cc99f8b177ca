// Package catalog holds the read-only calculator catalog: categories,
// calculator definitions and per-state mortgage profiles.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/validation"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// InputType is the semantic type of a calculator form field.
type InputType string

const (
	InputNumber   InputType = "number"
	InputCurrency InputType = "currency"
	InputPercent  InputType = "percent"
	InputYears    InputType = "years"
	InputMonths   InputType = "months"
	InputSelect   InputType = "select"
)

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool {
	switch t {
	case InputNumber, InputCurrency, InputPercent, InputYears, InputMonths, InputSelect:
		return true
	}
	return false
}

// Option is one choice of a select input.
type Option struct {
	Value float64 `yaml:"value" json:"value"`
	Label string  `yaml:"label" json:"label"`
}

// Input describes one form field of a calculator.
type Input struct {
	Name        string    `yaml:"name" json:"name"`
	Label       string    `yaml:"label" json:"label"`
	Type        InputType `yaml:"type" json:"type"`
	Placeholder string    `yaml:"placeholder" json:"placeholder,omitempty"`
	Min         *float64  `yaml:"min" json:"min,omitempty"`
	Max         *float64  `yaml:"max" json:"max,omitempty"`
	Step        *float64  `yaml:"step" json:"step,omitempty"`
	Required    bool      `yaml:"required" json:"required,omitempty"`
	Hint        string    `yaml:"hint" json:"hint,omitempty"`
	Options     []Option  `yaml:"options" json:"options,omitempty"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Link points at a related page.
type Link struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Href        string `yaml:"href" json:"href"`
}

// Example is the worked example shown on a calculator page.
type Example struct {
	Title       string             `yaml:"title" json:"title"`
	Description string             `yaml:"description" json:"description"`
	Inputs      map[string]float64 `yaml:"inputs" json:"inputs"`
}

// SEO holds page metadata.
type SEO struct {
	Title         string   `yaml:"title" json:"title"`
	Description   string   `yaml:"description" json:"description"`
	Keywords      []string `yaml:"keywords" json:"keywords,omitempty"`
	OGTitle       string   `yaml:"ogTitle" json:"ogTitle,omitempty"`
	OGDescription string   `yaml:"ogDescription" json:"ogDescription,omitempty"`
}

// Calculator binds a calculator kind to its form schema and page content.
type Calculator struct {
	Kind        formula.Kind `yaml:"key" json:"key"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
	Intro       string       `yaml:"intro" json:"intro"`
	Inputs      []Input      `yaml:"inputs" json:"inputs"`
	HowItWorks  []string     `yaml:"howItWorks" json:"howItWorks"`
	Example     Example      `yaml:"example" json:"example"`
	FAQs        []FAQ        `yaml:"faqs" json:"faqs"`
	Related     []Link       `yaml:"related" json:"related"`
	SEO         SEO          `yaml:"seo" json:"seo"`
}

// ExampleValues returns a copy of the worked example inputs.
func (c *Calculator) ExampleValues() formula.Values {
	return formula.Values(c.Example.Inputs).Clone()
}

// InputBounds returns the declared bounds of every input.
func (c *Calculator) InputBounds() []validation.InputBounds {
	bounds := make([]validation.InputBounds, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		bounds = append(bounds, validation.InputBounds{
			Name:     in.Name,
			Label:    in.Label,
			Min:      in.Min,
			Max:      in.Max,
			Required: in.Required,
		})
	}
	return bounds
}

// Category groups calculators under one landing page.
type Category struct {
	Key         string         `yaml:"key" json:"key"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Calculators []formula.Kind `yaml:"calculators" json:"calculators"`
}

// Page is the title and description of a standalone page.
type Page struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is the full, immutable site catalog. It must not be modified after Load.
type Catalog struct {
	SiteName    string         `yaml:"siteName" json:"siteName"`
	Index       Page           `yaml:"index" json:"index"`
	Categories  []Category     `yaml:"categories" json:"categories"`
	Calculators []Calculator   `yaml:"calculators" json:"calculators"`
	States      []StateProfile `yaml:"states" json:"states"`
	StateFAQs   []FAQ          `yaml:"stateFaqs" json:"stateFaqs"`

	calculators map[formula.Kind]int
	categories  map[string]int
	categoryOf  map[formula.Kind]int
	states      map[string]int
}

// Load decodes and validates a catalog.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// LoadFile loads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(embedded))
})

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

func (c *Catalog) index() error {
	c.calculators = make(map[formula.Kind]int, len(c.Calculators))
	for i, calc := range c.Calculators {
		if !calc.Kind.Valid() {
			return fmt.Errorf("calculator %d has no key", i)
		}
		if _, dup := c.calculators[calc.Kind]; dup {
			return fmt.Errorf("duplicate calculator %s", calc.Kind.Key())
		}
		if err := validateInputs(calc); err != nil {
			return err
		}
		c.calculators[calc.Kind] = i
	}

	c.categories = make(map[string]int, len(c.Categories))
	c.categoryOf = make(map[formula.Kind]int, len(c.Calculators))
	for i, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category %d has no key", i)
		}
		if _, dup := c.categories[cat.Key]; dup {
			return fmt.Errorf("duplicate category %s", cat.Key)
		}
		c.categories[cat.Key] = i
		for _, kind := range cat.Calculators {
			if _, ok := c.calculators[kind]; !ok {
				return fmt.Errorf("category %s lists undefined calculator %s", cat.Key, kind.Key())
			}
			if other, dup := c.categoryOf[kind]; dup {
				return fmt.Errorf("calculator %s is listed in both %s and %s", kind.Key(), c.Categories[other].Key, cat.Key)
			}
			c.categoryOf[kind] = i
		}
	}
	for _, calc := range c.Calculators {
		if _, ok := c.categoryOf[calc.Kind]; !ok {
			return fmt.Errorf("calculator %s is not listed in any category", calc.Kind.Key())
		}
	}

	c.states = make(map[string]int, len(c.States))
	for i, st := range c.States {
		if st.Key == "" {
			return fmt.Errorf("state profile %d has no key", i)
		}
		if _, dup := c.states[st.Key]; dup {
			return fmt.Errorf("duplicate state profile %s", st.Key)
		}
		if st.PropertyTaxRate < 0 || st.AvgHomePrice < 0 || math.IsNaN(st.PropertyTaxRate) || math.IsNaN(st.AvgHomePrice) {
			return fmt.Errorf("state profile %s has a negative rate or price", st.Key)
		}
		c.states[st.Key] = i
	}
	if len(c.States) > 0 {
		if _, ok := c.calculators[formula.KindMortgage]; !ok {
			return fmt.Errorf("state profiles require the %s calculator", formula.KindMortgage.Key())
		}
	}
	return nil
}

func validateInputs(calc Calculator) error {
	seen := make(map[string]bool, len(calc.Inputs))
	for _, in := range calc.Inputs {
		if in.Name == "" {
			return fmt.Errorf("calculator %s has an input with no name", calc.Kind.Key())
		}
		if seen[in.Name] {
			return fmt.Errorf("calculator %s has duplicate input %s", calc.Kind.Key(), in.Name)
		}
		seen[in.Name] = true
		if !in.Type.Valid() {
			return fmt.Errorf("calculator %s input %s has unknown type %q", calc.Kind.Key(), in.Name, in.Type)
		}
		if in.Type == InputSelect && len(in.Options) == 0 {
			return fmt.Errorf("calculator %s select input %s has no options", calc.Kind.Key(), in.Name)
		}
		if in.Min != nil && in.Max != nil && *in.Min > *in.Max {
			return fmt.Errorf("calculator %s input %s has min above max", calc.Kind.Key(), in.Name)
		}
	}
	return nil
}

// Calculator returns the definition for kind.
func (c *Catalog) Calculator(kind formula.Kind) (*Calculator, bool) {
	i, ok := c.calculators[kind]
	if !ok {
		return nil, false
	}
	return &c.Calculators[i], true
}

// CalculatorByKey resolves a calculator by its URL key.
func (c *Catalog) CalculatorByKey(key string) (*Calculator, bool) {
	kind, err := formula.ParseKind(key)
	if err != nil {
		return nil, false
	}
	return c.Calculator(kind)
}

// Category returns the category with the given key.
func (c *Catalog) Category(key string) (*Category, bool) {
	i, ok := c.categories[key]
	if !ok {
		return nil, false
	}
	return &c.Categories[i], true
}

// CategoryOf returns the category that lists kind.
func (c *Catalog) CategoryOf(kind formula.Kind) (*Category, bool) {
	i, ok := c.categoryOf[kind]
	if !ok {
		return nil, false
	}
	return &c.Categories[i], true
}

// State returns the mortgage profile for a state key such as "new-york".
func (c *Catalog) State(key string) (*StateProfile, bool) {
	i, ok := c.states[key]
	if !ok {
		return nil, false
	}
	return &c.States[i], true
}

// CalculatorCount is the number of calculator entries across all categories.
func (c *Catalog) CalculatorCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Calculators)
	}
	return n
}
