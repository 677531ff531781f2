package subscription

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// Source defines how plans are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) (map[company.Plan]Plan, error)
}

// Catalog is the static plan-to-limits mapping. Immutable after
// construction, so lookups need no synchronization.
type Catalog struct {
	plans     map[company.Plan]Plan
	byPriceID map[string]company.Plan
}

// requiredPlans must be present in every catalog so that tenant creation,
// cancellation fallback, and each public tier always resolve.
var requiredPlans = []company.Plan{
	company.PlanTrial,
	company.PlanBasic,
	company.PlanProfessional,
	company.PlanEnterprise,
}

// NewCatalog loads and validates plans from the given source.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	byPriceID := make(map[string]company.Plan)
	for id, plan := range plans {
		if plan.PriceID != "" {
			byPriceID[plan.PriceID] = id
		}
	}

	return &Catalog{plans: plans, byPriceID: byPriceID}, nil
}

// Resolve returns the plan for the given identifier.
func (c *Catalog) Resolve(id company.Plan) (Plan, error) {
	plan, exists := c.plans[id]
	if !exists {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// ResolveByPriceID maps a billing provider price identifier back to a plan.
func (c *Catalog) ResolveByPriceID(priceID string) (Plan, bool) {
	id, exists := c.byPriceID[priceID]
	if !exists {
		return Plan{}, false
	}
	return c.plans[id], true
}

// Plans returns all plans sorted by ID for stable iteration.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, plan := range c.plans {
		out = append(out, plan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validatePlans(plans map[company.Plan]Plan) error {
	for _, required := range requiredPlans {
		if _, exists := plans[required]; !exists {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("required plan %q is missing from the catalog", required))
		}
	}

	for id, plan := range plans {
		if plan.ID != id {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan ID mismatch: map key %q != plan.ID %q", id, plan.ID))
		}
		if plan.TrialDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %q has negative trial days: %d", id, plan.TrialDays))
		}
		for name, limit := range map[string]int64{
			"max_seats":                 plan.Limits.MaxSeats,
			"max_assets":                plan.Limits.MaxAssets,
			"max_inspections_per_month": plan.Limits.MaxInspectionsPerMonth,
		} {
			if limit == 0 || limit < company.Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %q has invalid %s: %d (must be positive or unlimited)", id, name, limit))
			}
		}
	}
	return nil
}
