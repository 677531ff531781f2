package subscription

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// inMemSource implements Source over a plain plan map.
type inMemSource struct {
	plans map[company.Plan]Plan
}

// NewInMemSource returns a Source backed by a copy of the given plans.
func NewInMemSource(plans map[company.Plan]Plan) Source {
	return &inMemSource{plans: maps.Clone(plans)}
}

// NewDefaultSource returns a Source with the built-in plan catalog.
func NewDefaultSource() Source {
	return &inMemSource{plans: DefaultPlans()}
}

func (s *inMemSource) Load(ctx context.Context) (map[company.Plan]Plan, error) {
	return maps.Clone(s.plans), nil
}

// fileSource loads the plan catalog from a YAML file, allowing limit
// thresholds to be overridden without a rebuild.
type fileSource struct {
	path string
}

// NewFileSource returns a Source that reads plans from the YAML file at path.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) (map[company.Plan]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog %s: %w", s.path, err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse plan catalog %s: %w", s.path, err)
	}
	if len(doc.Plans) == 0 {
		return nil, errors.Join(ErrInvalidPlanConfiguration,
			fmt.Errorf("plan catalog %s contains no plans", s.path))
	}

	plans := make(map[company.Plan]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		if _, dup := plans[plan.ID]; dup {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan %q in catalog %s", plan.ID, s.path))
		}
		plans[plan.ID] = plan
	}
	return plans, nil
}
