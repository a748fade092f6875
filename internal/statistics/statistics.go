package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ScenarioResult represents the solved breakdown of a single scenario
type ScenarioResult struct {
	AllIn      int // number of all-in players
	Pots       int // main pot plus side pots
	PotTotal   int // chips across all pots
	Refund     int // chips returned to the largest stack
	StackTotal int // sum of the all-in stacks
	Chips      int // physical chips needed to display every pot
	LargestPot int
}

// Statistics tracks aggregate results over many scenarios
type Statistics struct {
	Scenarios  int
	SumRefund  float64
	SumRefund2 float64   // Sum of squares for variance calculation
	Refunds    []float64 // Store all refunds for median/percentile calculation

	// Chip ledger - every chip is either in a pot or refunded
	StackChips  int
	PotChips    int
	RefundChips int

	// Shape of the hands
	PotCounts   map[int]int // scenarios by number of pots
	AllInCounts map[int]int // scenarios by all-in set size
	SidePots    int         // pots beyond the main pot
	ZeroRefunds int

	// Display analytics
	ChipsUsed  int
	MaxPot     int
	MaxRefund  int
	MaxChipsIn int // most chips needed for one scenario
}

// New returns empty statistics.
func New() *Statistics {
	return &Statistics{
		PotCounts:   make(map[int]int),
		AllInCounts: make(map[int]int),
	}
}

// Add incorporates a new scenario result into the statistics
func (s *Statistics) Add(result ScenarioResult) {
	if s.PotCounts == nil {
		s.PotCounts = make(map[int]int)
	}
	if s.AllInCounts == nil {
		s.AllInCounts = make(map[int]int)
	}

	refund := float64(result.Refund)
	s.Scenarios++
	s.SumRefund += refund
	s.SumRefund2 += refund * refund
	s.Refunds = append(s.Refunds, refund)

	s.StackChips += result.StackTotal
	s.PotChips += result.PotTotal
	s.RefundChips += result.Refund

	s.PotCounts[result.Pots]++
	s.AllInCounts[result.AllIn]++
	if result.Pots > 1 {
		s.SidePots += result.Pots - 1
	}
	if result.Refund == 0 {
		s.ZeroRefunds++
	}

	s.ChipsUsed += result.Chips
	s.MaxPot = max(s.MaxPot, result.LargestPot)
	s.MaxRefund = max(s.MaxRefund, result.Refund)
	s.MaxChipsIn = max(s.MaxChipsIn, result.Chips)
}

// Merge folds other into s. Used to combine per-worker statistics.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	if s.PotCounts == nil {
		s.PotCounts = make(map[int]int)
	}
	if s.AllInCounts == nil {
		s.AllInCounts = make(map[int]int)
	}
	s.Scenarios += other.Scenarios
	s.SumRefund += other.SumRefund
	s.SumRefund2 += other.SumRefund2
	s.Refunds = append(s.Refunds, other.Refunds...)
	s.StackChips += other.StackChips
	s.PotChips += other.PotChips
	s.RefundChips += other.RefundChips
	for k, v := range other.PotCounts {
		s.PotCounts[k] += v
	}
	for k, v := range other.AllInCounts {
		s.AllInCounts[k] += v
	}
	s.SidePots += other.SidePots
	s.ZeroRefunds += other.ZeroRefunds
	s.ChipsUsed += other.ChipsUsed
	s.MaxPot = max(s.MaxPot, other.MaxPot)
	s.MaxRefund = max(s.MaxRefund, other.MaxRefund)
	s.MaxChipsIn = max(s.MaxChipsIn, other.MaxChipsIn)
}

// MeanRefund returns the arithmetic mean refund per scenario
func (s *Statistics) MeanRefund() float64 {
	if s.Scenarios == 0 {
		return 0
	}
	return s.SumRefund / float64(s.Scenarios)
}

// Variance returns the sample variance of the refunds
func (s *Statistics) Variance() float64 {
	if s.Scenarios < 2 {
		return 0
	}
	mean := s.MeanRefund()
	return (s.SumRefund2 - float64(s.Scenarios)*mean*mean) / float64(s.Scenarios-1)
}

// StdDev returns the sample standard deviation of the refunds
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean refund
func (s *Statistics) StdError() float64 {
	if s.Scenarios == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Scenarios))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean refund
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.MeanRefund()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// MedianRefund returns the median refund
func (s *Statistics) MedianRefund() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the refund at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Refunds) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Refunds))
	copy(sorted, s.Refunds)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// MeanPots returns the average number of pots per scenario
func (s *Statistics) MeanPots() float64 {
	if s.Scenarios == 0 {
		return 0
	}
	total := 0
	for pots, n := range s.PotCounts {
		total += pots * n
	}
	return float64(total) / float64(s.Scenarios)
}

// IsLedgerBalanced checks that every chip committed ended in a pot or a refund
func (s *Statistics) IsLedgerBalanced() bool {
	return s.StackChips == s.PotChips+s.RefundChips
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: stacks=%d, pots=%d, refunds=%d",
			s.StackChips, s.PotChips, s.RefundChips)
	}

	if s.Scenarios <= 0 {
		return fmt.Errorf("invalid scenario count: %d", s.Scenarios)
	}

	if len(s.Refunds) != s.Scenarios {
		return fmt.Errorf("refunds length (%d) does not match scenario count (%d)",
			len(s.Refunds), s.Scenarios)
	}

	byPots, byAllIn := 0, 0
	for _, n := range s.PotCounts {
		byPots += n
	}
	for _, n := range s.AllInCounts {
		byAllIn += n
	}
	if byPots != s.Scenarios || byAllIn != s.Scenarios {
		return fmt.Errorf("histograms (%d pots, %d all-in) do not match scenario count (%d)",
			byPots, byAllIn, s.Scenarios)
	}

	return nil
}

// Summary renders a short human-readable report.
func (s *Statistics) Summary() string {
	var b strings.Builder
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(&b, "Scenarios:     %d\n", s.Scenarios)
	fmt.Fprintf(&b, "Mean pots:     %.2f (%d side pots total)\n", s.MeanPots(), s.SidePots)
	fmt.Fprintf(&b, "Mean refund:   %.1f chips (95%% CI %.1f to %.1f)\n", s.MeanRefund(), low, high)
	fmt.Fprintf(&b, "Median refund: %.0f, p90 %.0f, max %d\n", s.MedianRefund(), s.Percentile(0.9), s.MaxRefund)
	fmt.Fprintf(&b, "Largest pot:   %d chips\n", s.MaxPot)
	fmt.Fprintf(&b, "Chips drawn:   %d (most in one hand %d)\n", s.ChipsUsed, s.MaxChipsIn)

	b.WriteString("Pots per hand:")
	for _, k := range sortedKeys(s.PotCounts) {
		fmt.Fprintf(&b, " %d×%d", k, s.PotCounts[k])
	}
	b.WriteString("\nAll-in sizes: ")
	for _, k := range sortedKeys(s.AllInCounts) {
		fmt.Fprintf(&b, " %d×%d", k, s.AllInCounts[k])
	}
	b.WriteString("\n")
	return b.String()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
