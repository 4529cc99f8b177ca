// Package server exposes the calculators over a JSON API and serves the
// generated static site.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/fincalculate/internal/cache"
	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/routes"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/loans"
	"github.com/iwvelando/fincalculate/pkg/output"
	"github.com/iwvelando/fincalculate/pkg/validation"
	"go.uber.org/zap"
)

// Options configures the HTTP handler. Zero values fall back to defaults.
type Options struct {
	Catalog      *catalog.Catalog
	SiteName     string
	Cache        cache.Repository
	StaticDir    string
	MaxBodyBytes int64
	RateLimit    float64
	Burst        int
	Version      string
	Now          func() time.Time
}

type handler struct {
	logger       *zap.Logger
	catalog      *catalog.Catalog
	siteName     string
	cache        cache.Repository
	evaluator    *formula.Evaluator
	schedules    *loans.AmortizationScheduleGenerator
	enumerator   *routes.Enumerator
	maxBodyBytes int64
	version      string
	now          func() time.Time
}

// NewHandler constructs the HTTP handler that serves the calculator API and the static site.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := opts.Catalog
	if cat == nil {
		var err error
		cat, err = catalog.Default()
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded catalog: %v", err))
		}
	}

	repo := opts.Cache
	if repo == nil {
		repo = cache.None{}
	}

	maxBodyBytes := opts.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.DefaultMaxBodyBytes
	}

	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = cat.SiteName
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &handler{
		logger:       logger,
		catalog:      cat,
		siteName:     siteName,
		cache:        repo,
		evaluator:    formula.NewEvaluator(logger),
		schedules:    loans.NewAmortizationScheduleGenerator(logger),
		enumerator:   routes.NewEnumerator(cat, logger).WithSiteName(siteName),
		maxBodyBytes: maxBodyBytes,
		version:      version,
		now:          now,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware(logger))

	api := router.PathPrefix("/api").Subrouter()
	if opts.RateLimit > 0 {
		api.Use(NewIPRateLimiter(opts.RateLimit, opts.Burst).LimitMiddleware)
	}
	api.HandleFunc("/catalog", h.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/calculators/{key}", h.handleCalculator).Methods(http.MethodGet)
	api.HandleFunc("/calculators/{key}/calculate", h.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/calculators/{key}/schedule", h.handleSchedule).Methods(http.MethodGet)
	api.HandleFunc("/routes", h.handleRoutes).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, r, http.StatusNotFound, "unknown API endpoint", "server.api")
	})
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.api")
	})

	// Generated site
	router.Handle("/", http.RedirectHandler(constants.RootPath, http.StatusFound))
	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err != nil {
			logger.Warn("static site directory is not available",
				zap.String("op", "server.NewHandler"),
				zap.String("dir", opts.StaticDir),
				zap.Error(err),
			)
		}
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}

	return router
}

type calculatorSummary struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Amortizing  bool   `json:"amortizing,omitempty"`
}

type categorySummary struct {
	Key         string              `json:"key"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Path        string              `json:"path"`
	Calculators []calculatorSummary `json:"calculators"`
}

type catalogResponse struct {
	SiteName   string            `json:"siteName"`
	Categories []categorySummary `json:"categories"`
	States     []stateSummary    `json:"states"`
}

type stateSummary struct {
	Key             string  `json:"key"`
	State           string  `json:"state"`
	PropertyTaxRate float64 `json:"propertyTaxRate"`
	AvgHomePrice    float64 `json:"avgHomePrice"`
	Path            string  `json:"path"`
}

type calculatorResponse struct {
	calculatorSummary
	Category   string          `json:"category"`
	Intro      string          `json:"intro"`
	Inputs     []catalog.Input `json:"inputs"`
	Example    catalog.Example `json:"example"`
	HowItWorks []string        `json:"howItWorks,omitempty"`
	FAQs       []catalog.FAQ   `json:"faqs,omitempty"`
}

type calculateResponse struct {
	formula.Outcome
	Warnings []string `json:"warnings,omitempty"`
	Cached   bool     `json:"cached"`
}

type scheduleResponse struct {
	Calculator     string          `json:"calculator"`
	Principal      float64         `json:"principal"`
	AnnualRate     float64         `json:"annualRate"`
	TermMonths     int             `json:"termMonths"`
	MonthlyPayment float64         `json:"monthlyPayment"`
	TotalInterest  float64         `json:"totalInterest"`
	Payments       []loans.Payment `json:"payments"`
}

func (h *handler) summarize(calc *catalog.Calculator) calculatorSummary {
	summary := calculatorSummary{
		Key:         calc.Kind.Key(),
		Title:       calc.Title,
		Description: calc.Description,
		Amortizing:  calc.Kind.Amortizing(),
	}
	if category, ok := h.catalog.CategoryOf(calc.Kind); ok {
		summary.Path = routes.CalculatorPath(category.Key, calc.Kind)
	}
	return summary
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		SiteName:   h.siteName,
		Categories: make([]categorySummary, 0, len(h.catalog.Categories)),
		States:     make([]stateSummary, 0, len(h.catalog.States)),
	}
	for _, category := range h.catalog.Categories {
		summary := categorySummary{
			Key:         category.Key,
			Title:       category.Title,
			Description: category.Description,
			Path:        routes.CategoryPath(category.Key),
			Calculators: make([]calculatorSummary, 0, len(category.Calculators)),
		}
		for _, kind := range category.Calculators {
			if calc, ok := h.catalog.Calculator(kind); ok {
				summary.Calculators = append(summary.Calculators, h.summarize(calc))
			}
		}
		resp.Categories = append(resp.Categories, summary)
	}
	if mortgageCategory, ok := h.catalog.CategoryOf(formula.KindMortgage); ok {
		for _, state := range h.catalog.States {
			resp.States = append(resp.States, stateSummary{
				Key:             state.Key,
				State:           state.State,
				PropertyTaxRate: state.PropertyTaxRate,
				AvgHomePrice:    state.AvgHomePrice,
				Path:            routes.StatePath(mortgageCategory.Key, state.Key),
			})
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// lookup resolves the {key} path variable, writing a 404 when it is unknown.
func (h *handler) lookup(w http.ResponseWriter, r *http.Request, op string) (*catalog.Calculator, bool) {
	key := mux.Vars(r)["key"]
	calc, ok := h.catalog.CalculatorByKey(key)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, fmt.Sprintf("unknown calculator %q", key), op)
		return nil, false
	}
	return calc, true
}

func (h *handler) handleCalculator(w http.ResponseWriter, r *http.Request) {
	calc, ok := h.lookup(w, r, "server.handleCalculator")
	if !ok {
		return
	}
	resp := calculatorResponse{
		calculatorSummary: h.summarize(calc),
		Intro:             calc.Intro,
		Inputs:            calc.Inputs,
		Example:           calc.Example,
		HowItWorks:        calc.HowItWorks,
		FAQs:              calc.FAQs,
	}
	if category, ok := h.catalog.CategoryOf(calc.Kind); ok {
		resp.Category = category.Key
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	calc, ok := h.lookup(w, r, op)
	if !ok {
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodyBytes), op)
		case errors.Is(err, io.EOF):
			h.respondError(w, r, http.StatusBadRequest, "request body must be a JSON object of inputs", op)
		default:
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode inputs: %v", err), op)
		}
		return
	}

	values := formula.ParseValues(raw)
	bounds := calc.InputBounds()
	warnings := validation.CheckInputs(bounds, values)
	unknown := validation.UnknownInputs(bounds, values)
	sort.Strings(unknown)
	for _, name := range unknown {
		warnings = append(warnings, fmt.Sprintf("%s is not an input of %s and was ignored", name, calc.Kind.Key()))
	}

	now := h.now()
	key := cache.Key(calc.Kind, values, now)
	resp := calculateResponse{Warnings: warnings}

	if cached, hit := h.cache.Get(r.Context(), key); hit {
		if err := json.Unmarshal([]byte(cached), &resp.Outcome); err == nil {
			resp.Cached = true
		} else {
			h.logger.Warn("discarding unreadable cached outcome",
				zap.String("op", op),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	if !resp.Cached {
		resp.Outcome = h.evaluator.Evaluate(calc.Kind, values, now)
		if encoded, err := json.Marshal(resp.Outcome); err == nil {
			if err := h.cache.Set(r.Context(), key, string(encoded)); err != nil {
				h.logger.Warn("failed to cache outcome",
					zap.String("op", op),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	h.logger.Info("calculation served",
		zap.String("op", op),
		zap.String("calculator", calc.Kind.Key()),
		zap.String("requestID", RequestID(r.Context())),
		zap.Bool("cached", resp.Cached),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	calc, ok := h.lookup(w, r, op)
	if !ok {
		return
	}

	query := r.URL.Query()
	raw := make(map[string]string, len(query))
	for name, vals := range query {
		if name != "format" && len(vals) > 0 {
			raw[name] = vals[0]
		}
	}

	principal, annualRate, termMonths, ok := formula.LoanTerms(calc.Kind, formula.ParseStrings(raw))
	if !ok {
		h.respondError(w, r, http.StatusBadRequest,
			fmt.Sprintf("%s does not produce an amortization schedule", calc.Kind.Key()), op)
		return
	}

	payments, err := h.schedules.GenerateSchedule(principal, annualRate, termMonths)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	if strings.EqualFold(query.Get("format"), constants.OutputFormatCSV) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-schedule.csv", calc.Kind.Key()))
		if err := output.CsvSchedule(w, payments); err != nil {
			h.logger.Error("failed to write schedule CSV", zap.String("op", op), zap.Error(err))
		}
		return
	}

	term := int(math.Round(termMonths))
	var summary loans.Summary
	if len(payments) > 0 {
		summary = loans.Summarize(principal, annualRate, float64(term))
	}
	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Calculator:     calc.Kind.Key(),
		Principal:      summary.Principal,
		AnnualRate:     annualRate,
		TermMonths:     term,
		MonthlyPayment: summary.MonthlyPayment,
		TotalInterest:  summary.TotalInterest,
		Payments:       payments,
	})
}

func (h *handler) handleRoutes(w http.ResponseWriter, r *http.Request) {
	rs, err := h.enumerator.Enumerate(h.now())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to enumerate routes: %v", err), "server.handleRoutes")
		return
	}
	h.writeJSON(w, http.StatusOK, rs)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("requestID", RequestID(r.Context())),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
