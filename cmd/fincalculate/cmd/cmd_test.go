package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/config"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zapcore"
)

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"homePrice=$400,000", " interestRate =6.5%", "loanTerm=thirty"})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}
	if values["homePrice"] != 400000 || values["interestRate"] != 6.5 || values["loanTerm"] != 0 {
		t.Errorf("parseAssignments() = %v", values)
	}

	for _, bad := range []string{"homePrice", "=5"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("parseAssignments(%q) expected error", bad)
		}
	}
}

func TestLookupCalculator(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}

	tests := []struct {
		key     string
		want    formula.Kind
		wantErr bool
	}{
		{"mortgage-calculator", formula.KindMortgage, false},
		{"Mortgage", formula.KindMortgage, false},
		{"401k-calculator", formula.Kind401k, false},
		{"lottery", formula.KindUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			calc, err := lookupCalculator(cat, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("lookupCalculator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && calc.Kind != tt.want {
				t.Errorf("lookupCalculator() = %v, expected %v", calc.Kind, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestInitializeLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fincalculate.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", Format: "console", OutputFile: path}, "debug")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("level override was not applied")
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing entry: %q", data)
	}

	if _, err := initializeLogger(config.LoggingConfig{Format: "xml"}, ""); err == nil {
		t.Errorf("initializeLogger() expected error for bad format")
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FINCALC_TEST_ENV_VALUE=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("FINCALC_TEST_ENV_VALUE") })
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}
	if got := os.Getenv("FINCALC_TEST_ENV_VALUE"); got != "loaded" {
		t.Errorf("FINCALC_TEST_ENV_VALUE = %q", got)
	}
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	// flag values persist between executions of the same command tree
	calcSet, calcExample, calcSchedule, calcFormat, calcOut = nil, false, false, "", ""
	exportFormat, exportOut = "", ""
	batchFormat, batchOut = "", ""
	routesPlain = false
	generateOutputDir, generateBaseURL = "", ""

	err := rootCmd.Execute()
	return out.String(), err
}

// execute is run for commands expected to succeed.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("Execute(%v) error = %v", args, err)
	}
	return out
}

// failingCloser accepts writes and fails on Close, like a full disk on flush.
type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error {
	return errors.New("no space left on device")
}

func TestReportCloseErrorPropagates(t *testing.T) {
	original := createOutput
	t.Cleanup(func() { createOutput = original })
	createOutput = func(path string) (io.WriteCloser, error) {
		return &failingCloser{}, nil
	}

	tests := []struct {
		name string
		args []string
	}{
		{"calc", []string{"calc", "mortgage", "--example", "--format", "csv", "--out", "report.csv"}},
		{"export", []string{"export", "all", "--format", "xlsx", "--out", "report.xlsx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), "no space left on device") {
				t.Errorf("Execute(%v) error = %v, expected the close error", tt.args, err)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	err := writeReport(&bytes.Buffer{}, path, "csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	if err != nil {
		t.Fatalf("writeReport() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "a,b\n" {
		t.Errorf("report = %q, %v", data, err)
	}

	writeErr := errors.New("write failed")
	original := createOutput
	t.Cleanup(func() { createOutput = original })
	createOutput = func(path string) (io.WriteCloser, error) {
		return &failingCloser{}, nil
	}
	err = writeReport(&bytes.Buffer{}, "report.csv", "csv", func(io.Writer) error { return writeErr })
	if !errors.Is(err, writeErr) {
		t.Errorf("writeReport() error = %v, expected the write error to win over the close error", err)
	}

	var stdout bytes.Buffer
	if err := writeReport(&stdout, "", "pretty", func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	}); err != nil || stdout.String() != "ok" {
		t.Errorf("stdout report = %q, %v", stdout.String(), err)
	}
}

func TestCalcCommand(t *testing.T) {
	out := execute(t, "calc", "mortgage",
		"--set", "homePrice=400000", "--set", "downPayment=80000",
		"--set", "interestRate=6.5", "--set", "loanTerm=30",
		"--format", "csv")

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v\n%s", err, out)
	}
	if records[1][0] != "mortgage-calculator" || records[1][1] != "Monthly Payment" || records[1][2] != "2022.62" {
		t.Errorf("unexpected first row %v", records[1])
	}
}

func TestCalcScheduleCommand(t *testing.T) {
	out := execute(t, "calc", "auto-loan-calculator",
		"--set", "carPrice=30000", "--set", "interestRate=6", "--set", "loanTerm=12",
		"--schedule", "--format", "csv")

	if lines := strings.Count(out, "\n"); lines != 13 {
		t.Errorf("schedule wrote %d lines, expected 13:\n%s", lines, out)
	}
}

func TestRoutesCommand(t *testing.T) {
	out := execute(t, "routes", "--plain")
	paths := strings.Fields(out)
	if len(paths) != 41 {
		t.Fatalf("expected 41 paths, got %d", len(paths))
	}
	if paths[0] != "/us/" {
		t.Errorf("first path = %s, expected /us/", paths[0])
	}

	table := execute(t, "routes")
	if !strings.Contains(table, "41 routes") || !strings.Contains(table, "HEADING") {
		t.Errorf("route table missing summary:\n%s", table)
	}
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examples.xlsx")
	execute(t, "export", "all", "--format", "xlsx", "--out", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 25 {
		t.Errorf("expected 25 sheets, got %d", len(sheets))
	}
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debts.csv")
	data := "balance,interestRate,monthlyPayment\n10000,18,300\n10000,24,150\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out := execute(t, "batch", "debt-payoff-calculator", path)
	if got := strings.Count(out, "--- Results for debt-payoff-calculator ---"); got != 2 {
		t.Errorf("expected 2 result blocks, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "note:") {
		t.Errorf("saturated row missing note:\n%s", out)
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "generate", "--out", dir, "--base-url", "https://example.test/")
	if !strings.Contains(out, "wrote 41 pages") {
		t.Errorf("unexpected output %q", out)
	}
	for _, name := range []string{"sitemap.xml", "robots.txt", filepath.Join("us", "index.html")} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestGenerateCommandSiteName(t *testing.T) {
	t.Setenv("FINCALC_SITE_NAME", "Acme Money")
	dir := t.TempDir()
	execute(t, "generate", "--out", dir)

	data, err := os.ReadFile(filepath.Join(dir, "us", "loan-calculators", "index.html"))
	if err != nil {
		t.Fatalf("category page missing: %v", err)
	}
	page := string(data)
	for _, want := range []string{
		"<title>US Loan Calculators | Acme Money</title>",
		`<meta property="og:site_name" content="Acme Money">`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("category page missing %s", want)
		}
	}
}
