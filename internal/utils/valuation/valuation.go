// Package valuation turns a course duration and platform into a credit value.
// Rule sets are versioned so a stored request can be re-checked against the
// exact rules that produced it.
package valuation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// CurrentVersion identifies the rule set applied to new requests.
const CurrentVersion = "2024.1"

// RuleSet is one immutable version of the valuation table.
type RuleSet struct {
	Version string
	// Tiers maps a duration in weeks to credits. Durations not listed are invalid.
	Tiers map[int]int
	// ExternalProviders are matched as lowercase substrings of the platform name.
	ExternalProviders []string
}

// Result is the outcome of a valuation.
type Result struct {
	Credits        int
	Classification domain.CreditType
	Duration       string // normalized, e.g. "8"
	Version        string
}

var registry = map[string]RuleSet{
	"2024.1": {
		Version: "2024.1",
		Tiers:   map[int]int{12: 3, 8: 2, 4: 1},
		ExternalProviders: []string{
			"nptel", "swayam", "coursera", "edx", "ed x", "nptel (swayam)",
		},
	},
}

var durationDigits = regexp.MustCompile(`\d+`)

// Current returns the rule set applied to new requests.
func Current() RuleSet {
	return registry[CurrentVersion]
}

// ForVersion returns the rule set recorded on a stored request.
func ForVersion(version string) (RuleSet, error) {
	rs, ok := registry[version]
	if !ok {
		return RuleSet{}, fmt.Errorf("%w: unknown valuation version %q", apperrors.ErrDataCorruption, version)
	}
	return rs, nil
}

// Evaluate values a course using the current rule set.
func Evaluate(duration, creditType, platform string) (Result, error) {
	return Current().Evaluate(duration, creditType, platform)
}

// NormalizeDuration extracts the week count from free text such as "8 weeks".
// It returns false when no number is present.
func NormalizeDuration(raw string) (int, bool) {
	m := durationDigits.FindString(raw)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Evaluate computes credits and classification. An explicit creditType of
// "internal" or "external" wins over the platform lookup.
func (rs RuleSet) Evaluate(duration, creditType, platform string) (Result, error) {
	weeks, ok := NormalizeDuration(duration)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDuration, duration)
	}
	credits := rs.Tiers[weeks]
	if credits <= 0 {
		return Result{}, fmt.Errorf("%w: %d weeks is not a creditable duration", apperrors.ErrInvalidDuration, weeks)
	}

	return Result{
		Credits:        credits,
		Classification: rs.Classify(creditType, platform),
		Duration:       strconv.Itoa(weeks),
		Version:        rs.Version,
	}, nil
}

// Classify resolves the credit type from an explicit hint or the platform name.
// Hints other than internal or external, in any case, are ignored.
func (rs RuleSet) Classify(creditType, platform string) domain.CreditType {
	if hint := domain.CreditType(strings.ToLower(strings.TrimSpace(creditType))); hint.IsValid() {
		return hint
	}
	if rs.IsExternalProvider(platform) {
		return domain.CreditExternal
	}
	return domain.CreditInternal
}

// IsExternalProvider reports whether platform names a known MOOC provider.
func (rs RuleSet) IsExternalProvider(platform string) bool {
	p := strings.ToLower(strings.TrimSpace(platform))
	if p == "" {
		return false
	}
	for _, provider := range rs.ExternalProviders {
		if strings.Contains(p, provider) {
			return true
		}
	}
	return false
}
