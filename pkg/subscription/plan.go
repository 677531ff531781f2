package subscription

import (
	"time"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// Plan describes a pricing tier and the limits snapshot it resolves to.
type Plan struct {
	ID     company.Plan   `yaml:"id"`
	Name   string         `yaml:"name"`
	Limits company.Limits `yaml:"limits"`
	// PriceID is the billing provider's price identifier. Empty for plans
	// that never pass through the provider (trial).
	PriceID   string `yaml:"price_id,omitempty"`
	TrialDays int    `yaml:"trial_days,omitempty"`
	Public    bool   `yaml:"public"`
}

// TrialEndsAt returns when a trial started at startedAt ends for this plan.
// If the plan has no trial, returns startedAt.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}

// DefaultPlans returns the built-in catalog. Thresholds follow the product's
// published tiers; enterprise assets and inspections are unmetered.
func DefaultPlans() map[company.Plan]Plan {
	return map[company.Plan]Plan{
		company.PlanTrial: {
			ID:   company.PlanTrial,
			Name: "Trial",
			Limits: company.Limits{
				MaxSeats:               5,
				MaxAssets:              50,
				MaxInspectionsPerMonth: 100,
				AIAnalysisEnabled:      true,
			},
			TrialDays: 14,
			Public:    true,
		},
		company.PlanBasic: {
			ID:   company.PlanBasic,
			Name: "Basic",
			Limits: company.Limits{
				MaxSeats:               10,
				MaxAssets:              200,
				MaxInspectionsPerMonth: 500,
				AIAnalysisEnabled:      true,
			},
			Public: true,
		},
		company.PlanProfessional: {
			ID:   company.PlanProfessional,
			Name: "Professional",
			Limits: company.Limits{
				MaxSeats:               50,
				MaxAssets:              1000,
				MaxInspectionsPerMonth: 5000,
				AIAnalysisEnabled:      true,
			},
			Public: true,
		},
		company.PlanEnterprise: {
			ID:   company.PlanEnterprise,
			Name: "Enterprise",
			Limits: company.Limits{
				MaxSeats:               999,
				MaxAssets:              company.Unlimited,
				MaxInspectionsPerMonth: company.Unlimited,
				AIAnalysisEnabled:      true,
			},
			Public: false,
		},
	}
}
