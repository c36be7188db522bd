package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/piwi3910/RodCut/internal/milp"
	"github.com/piwi3910/RodCut/internal/milp/pbsolver"
	"github.com/piwi3910/RodCut/internal/model"
)

// Optimizer runs the cutting pipeline: normalize, fix oversized pieces,
// formulate, solve and extract.
type Optimizer struct {
	Settings model.Settings

	solver milp.Solver
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	solves   metric.Int64Counter
	rodsUsed metric.Int64Histogram
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger for pipeline progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		o.logger = l
	}
}

// WithSolver replaces the default gophersat backend.
func WithSolver(s milp.Solver) Option {
	return func(o *Optimizer) {
		o.solver = s
	}
}

// WithTracer sets the tracer used for stage spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Optimizer) {
		o.tracer = t
	}
}

// WithMeter sets the meter for the solve counter and rod histogram.
func WithMeter(m metric.Meter) Option {
	return func(o *Optimizer) {
		o.meter = m
	}
}

func New(settings model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		logger:   slog.Default(),
		tracer:   otel.Tracer("rodcut/engine"),
		meter:    otel.Meter("rodcut/engine"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.solver == nil {
		o.solver = pbsolver.New(pbsolver.WithLogger(o.logger))
	}

	var err error
	if o.solves, err = o.meter.Int64Counter("rodcut.solves", metric.WithDescription("Completed and failed solves")); err != nil {
		o.logger.Warn("solve counter unavailable", "error", err)
	}
	if o.rodsUsed, err = o.meter.Int64Histogram("rodcut.rods_used", metric.WithUnit("{rod}")); err != nil {
		o.logger.Warn("rod histogram unavailable", "error", err)
	}
	return o
}

// Optimize cuts items from rods of Settings.StockLength. A failed stage
// returns no solution.
func (o *Optimizer) Optimize(ctx context.Context, items []model.DemandItem) (model.Solution, error) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "Optimize", trace.WithAttributes(
		attribute.String("algorithm", string(o.Settings.Algorithm)),
		attribute.Float64("stock_length", o.Settings.StockLength),
		attribute.Int("items", len(items)),
	))
	defer span.End()

	algo := attribute.String("algorithm", string(o.Settings.Algorithm))
	sol, err := o.optimize(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.count(ctx, algo, attribute.Bool("ok", false))
		return model.Solution{}, err
	}
	o.count(ctx, algo, attribute.Bool("ok", true))
	if o.rodsUsed != nil {
		o.rodsUsed.Record(ctx, int64(sol.RodsUsed), metric.WithAttributes(algo))
	}

	sol.Duration = time.Since(start).Seconds()
	span.SetAttributes(
		attribute.Int("rods_used", sol.RodsUsed),
		attribute.Int("lower_bound", sol.LowerBound),
		attribute.Bool("optimal", sol.Optimal),
	)
	o.logger.Info("solve finished",
		"run_id", sol.RunID,
		"algorithm", sol.Algorithm,
		"rods_used", sol.RodsUsed,
		"lower_bound", sol.LowerBound,
		"max_rods", sol.MaxRods,
		"optimal", sol.Optimal,
		"scrap", sol.TotalScrap(),
		"duration", time.Since(start))
	return sol, nil
}

func (o *Optimizer) optimize(ctx context.Context, items []model.DemandItem) (model.Solution, error) {
	algorithm := o.Settings.Algorithm
	if algorithm == "" {
		algorithm = model.AlgorithmExact
	}
	if _, err := model.ParseAlgorithm(string(algorithm)); err != nil {
		return model.Solution{}, err
	}

	var norm Normalized
	err := o.stage(ctx, "normalize", func(context.Context) error {
		var err error
		norm, err = Normalize(items, o.Settings.StockLength)
		return err
	})
	if err != nil {
		return model.Solution{}, err
	}
	o.logger.Debug("normalized demand", "items", len(norm.Items), "max_rods", norm.MaxRods, "oversized", len(norm.Oversized()))

	var fix *Fixations
	if o.Settings.SymmetryBreaking {
		err = o.stage(ctx, "fix-oversized", func(context.Context) error {
			var err error
			fix, err = FixOversized(norm)
			return err
		})
		if err != nil {
			return model.Solution{}, err
		}
		o.logger.Debug("fixed oversized pieces", "dedicated_rods", DedicatedRods(norm), "fixed_cells", fix.Len())
	}

	lowerBound := model.LowerBound(norm.Items, norm.StockLength)

	var f *Formulation
	var m *milp.Model
	var greedyPack *milp.Result
	err = o.stage(ctx, "formulate", func(context.Context) error {
		var err error
		if f, err = NewFormulation(norm); err != nil {
			return err
		}
		if algorithm == model.AlgorithmExact {
			if greedyPack, err = Greedy(f, fix); err != nil {
				return err
			}
			if o.Settings.Cutoff {
				f.LimitRods(int(greedyPack.Objective))
				o.logger.Debug("rod count bounded by greedy packing", "limit", int(greedyPack.Objective))
			}
		}
		if m, err = f.Build(fix); err != nil {
			return err
		}
		m.SetObjectiveBound(float64(lowerBound))
		return nil
	})
	if err != nil {
		return model.Solution{}, err
	}
	o.logger.Debug("built model", "vars", m.NumVars(), "fixed", m.NumFixed(), "constraints", len(m.Constraints()))

	var res *milp.Result
	err = o.stage(ctx, "solve", func(ctx context.Context) error {
		var err error
		res, err = o.solve(ctx, algorithm, f, fix, m, greedyPack, lowerBound)
		return err
	})
	if err != nil {
		return model.Solution{}, err
	}

	var sol model.Solution
	err = o.stage(ctx, "extract", func(context.Context) error {
		var err error
		sol, err = Extract(f, res)
		return err
	})
	if err != nil {
		return model.Solution{}, err
	}
	if sol.RodsUsed != len(sol.Patterns) {
		o.logger.Warn("used rods without cuts", "rods_used", sol.RodsUsed, "patterns", len(sol.Patterns))
	}

	sol.RunID = uuid.New().String()[:8]
	sol.Algorithm = algorithm
	sol.LowerBound = lowerBound
	sol.Optimal = res.Status == milp.StatusOptimal || sol.RodsUsed == sol.LowerBound
	if err := sol.Verify(); err != nil {
		return model.Solution{}, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return sol, nil
}

func (o *Optimizer) solve(ctx context.Context, algorithm model.Algorithm, f *Formulation, fix *Fixations, m *milp.Model, greedyPack *milp.Result, lowerBound int) (*milp.Result, error) {
	var res *milp.Result
	var err error
	switch algorithm {
	case model.AlgorithmGreedy:
		res, err = Greedy(f, fix)
	case model.AlgorithmGenetic:
		res, err = Genetic(f, fix, o.Settings.GeneticSeed)
	default:
		// A greedy packing that reaches the lower bound is optimal as it stands.
		if greedyPack != nil && int(greedyPack.Objective) <= lowerBound && m.Check(greedyPack.Values) == nil {
			o.logger.Debug("greedy packing meets lower bound, exact search skipped", "rods", int(greedyPack.Objective))
			return &milp.Result{Status: milp.StatusOptimal, Objective: greedyPack.Objective, Values: greedyPack.Values}, nil
		}
		if limit := o.Settings.TimeLimit(); limit > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, limit)
			defer cancel()
		}
		res, err = o.solver.Solve(ctx, m)
		if errors.Is(err, milp.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
		}
		return res, err
	}
	if err != nil {
		return nil, err
	}
	// Heuristic packings are held to the same model as the exact solve.
	if err := m.Check(res.Values); err != nil {
		return nil, fmt.Errorf("%w: %s packing: %w", ErrInvariant, algorithm, err)
	}
	return res, nil
}

func (o *Optimizer) count(ctx context.Context, attrs ...attribute.KeyValue) {
	if o.solves != nil {
		o.solves.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// stage runs fn inside a span named after the pipeline stage.
func (o *Optimizer) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
