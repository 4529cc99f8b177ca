package formula

import (
	"fmt"
	"time"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"go.uber.org/zap"
)

// Kind identifies one calculator in the closed set the library supports.
type Kind int

const (
	KindUnknown Kind = iota
	KindMortgage
	KindAutoLoan
	KindPersonalLoan
	KindStudentLoan
	KindHomeEquity
	KindIncomeTax
	KindCapitalGains
	KindSelfEmploymentTax
	KindPropertyTax
	KindSalesTax
	KindCompoundInterest
	KindROI
	KindDividend
	KindStockReturn
	KindMutualFund
	Kind401k
	KindIRA
	KindSocialSecurity
	KindAnnuity
	KindRetirementSavings
	KindBudget
	KindNetWorth
	KindDebtPayoff
	KindSavingsGoal
	KindEmergencyFund
	kindCount
)

type evaluator func(v Values, now time.Time) ([]Result, bool)

func closedForm(f func(Values) []Result) evaluator {
	return func(v Values, _ time.Time) ([]Result, bool) {
		return f(v), false
	}
}

var kinds = [kindCount]struct {
	key      string
	evaluate evaluator
}{
	KindMortgage:          {"mortgage-calculator", closedForm(Mortgage)},
	KindAutoLoan:          {"auto-loan-calculator", closedForm(AutoLoan)},
	KindPersonalLoan:      {"personal-loan-calculator", closedForm(PersonalLoan)},
	KindStudentLoan:       {"student-loan-calculator", closedForm(StudentLoan)},
	KindHomeEquity:        {"home-equity-calculator", closedForm(HomeEquity)},
	KindIncomeTax:         {"income-tax-calculator", closedForm(IncomeTax)},
	KindCapitalGains:      {"capital-gains-tax-calculator", closedForm(CapitalGains)},
	KindSelfEmploymentTax: {"self-employment-tax-calculator", closedForm(SelfEmploymentTax)},
	KindPropertyTax:       {"property-tax-calculator", closedForm(PropertyTax)},
	KindSalesTax:          {"sales-tax-calculator", closedForm(SalesTax)},
	KindCompoundInterest:  {"compound-interest-calculator", closedForm(CompoundInterest)},
	KindROI:               {"roi-calculator", closedForm(ROI)},
	KindDividend:          {"dividend-calculator", closedForm(Dividend)},
	KindStockReturn:       {"stock-return-calculator", closedForm(StockReturn)},
	KindMutualFund:        {"mutual-fund-calculator", closedForm(MutualFund)},
	Kind401k:              {"401k-calculator", closedForm(Retirement401k)},
	KindIRA:               {"ira-calculator", closedForm(IRA)},
	KindSocialSecurity:    {"social-security-calculator", closedForm(SocialSecurity)},
	KindAnnuity:           {"annuity-calculator", closedForm(Annuity)},
	KindRetirementSavings: {"retirement-savings-calculator", closedForm(RetirementSavings)},
	KindBudget:            {"budget-calculator", closedForm(Budget)},
	KindNetWorth:          {"net-worth-calculator", closedForm(NetWorth)},
	KindDebtPayoff:        {"debt-payoff-calculator", DebtPayoff},
	KindSavingsGoal:       {"savings-goal-calculator", func(v Values, _ time.Time) ([]Result, bool) { return SavingsGoal(v) }},
	KindEmergencyFund:     {"emergency-fund-calculator", closedForm(EmergencyFund)},
}

// AllKinds lists every supported calculator in catalog order.
func AllKinds() []Kind {
	all := make([]Kind, 0, kindCount-1)
	for k := KindMortgage; k < kindCount; k++ {
		all = append(all, k)
	}
	return all
}

// Valid reports whether k names a supported calculator.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// Key returns the calculator's URL key, e.g. "mortgage-calculator".
func (k Kind) Key() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].key
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].key
}

// Amortizing reports whether the calculator is a fixed-payment loan with a schedule.
func (k Kind) Amortizing() bool {
	switch k {
	case KindMortgage, KindAutoLoan, KindPersonalLoan, KindStudentLoan, KindHomeEquity:
		return true
	}
	return false
}

// ParseKind resolves a calculator key.
func ParseKind(key string) (Kind, error) {
	for k := KindMortgage; k < kindCount; k++ {
		if kinds[k].key == key {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown calculator key %q", key)
}

// MarshalText encodes the kind as its key.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot encode invalid calculator kind %d", int(k))
	}
	return []byte(k.Key()), nil
}

// UnmarshalText decodes a calculator key, rejecting unknown keys.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Evaluator dispatches calculations to the formula for each kind.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator. A nil logger disables logging.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Evaluate runs the formula for kind. Dated results are computed relative to now.
// An invalid kind yields an Outcome with no results.
func (e *Evaluator) Evaluate(kind Kind, values Values, now time.Time) Outcome {
	if !kind.Valid() {
		e.logger.Warn("evaluation requested for invalid calculator kind",
			zap.String("op", "formula.Evaluate"),
			zap.Int("kind", int(kind)),
		)
		return Outcome{Kind: kind}
	}

	results, saturated := kinds[kind].evaluate(values, now)
	e.logger.Debug("evaluated calculator",
		zap.String("op", "formula.Evaluate"),
		zap.String("calculator", kind.Key()),
		zap.Int("results", len(results)),
	)
	if saturated {
		e.logger.Warn(fmt.Sprintf("simulation stopped at the %d month cap without converging", constants.MaxSimulationMonths),
			zap.String("op", "formula.Evaluate"),
			zap.String("calculator", kind.Key()),
		)
	}

	return Outcome{Kind: kind, Results: results, Saturated: saturated}
}

var defaultEvaluator = NewEvaluator(nil)

// Evaluate runs the formula for kind without logging.
func Evaluate(kind Kind, values Values, now time.Time) Outcome {
	return defaultEvaluator.Evaluate(kind, values, now)
}
