package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/automation"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/experiment"
)

// GridSearch tries every combination of world parameter values and keeps the
// one with the lowest value of a run metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs base once per grid point. Runs that fail validation or end in an
// invalid state are skipped; an error is returned only when no grid point could
// run, wrapping the last skip reason.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		if err := automation.ApplyParams(cfg, params); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams, &lastErr)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("metric %q not reported", metricName)
		}
		return nil, 0, fmt.Errorf("grid search: no run succeeded: %w", lastErr)
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	lastErr *error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			*lastErr = err
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		if len(result.Errors) > 0 {
			*lastErr = result.Errors[0]
			return nil
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams, lastErr); err != nil {
			return err
		}
	}
	return nil
}
