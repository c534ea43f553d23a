package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/textlens/textlens/internal/analysis/normalize"
	"github.com/textlens/textlens/internal/oracle"
	"go.uber.org/zap"
)

// Mode selects how deep an analysis run goes.
type Mode string

const (
	// ModeFull runs all three stages.
	ModeFull Mode = "full"
	// ModeQuick skips the per-unit evaluation stage.
	ModeQuick Mode = "quick"
)

// ParseMode resolves a mode name, defaulting to ModeFull.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(ModeFull):
		return ModeFull, nil
	case string(ModeQuick):
		return ModeQuick, nil
	default:
		return "", fmt.Errorf("unknown mode %q, available: %s, %s", name, ModeFull, ModeQuick)
	}
}

// Config tunes the orchestrator's oracle usage.
type Config struct {
	// Timeout bounds each oracle call; zero disables the bound.
	Timeout time.Duration
	// Workers bounds the per-unit fan-out. Values below 1 run sequentially.
	Workers int
	Mode    Mode
}

// Orchestrator runs the hierarchical pipeline: structure discovery, per-unit
// evaluation, holistic synthesis. The oracle is injected so runs against
// different models or test doubles need no shared state.
type Orchestrator struct {
	oracle  oracle.Oracle
	profile Profile
	logger  *zap.Logger
	timeout time.Duration
	workers int
	mode    Mode
}

// NewOrchestrator creates an orchestrator for the given profile.
func NewOrchestrator(orc oracle.Oracle, profile Profile, cfg Config, logger *zap.Logger) *Orchestrator {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeFull
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		oracle:  orc,
		profile: profile,
		logger:  logger,
		timeout: cfg.Timeout,
		workers: workers,
		mode:    mode,
	}
}

// evaluationOutputs is the typed shape of one evaluation-stage reply.
type evaluationOutputs struct {
	Analysis string `mapstructure:"analysis"`
	Score    string `mapstructure:"score"`
}

// Analyze runs the pipeline over the document. Stage failures degrade: a
// dead structure stage yields no units, a failed unit is kept in Units but
// absent from Evaluations, a failed holistic stage leaves its fields empty.
// Only cancellation of ctx aborts the run without a result.
func (o *Orchestrator) Analyze(ctx context.Context, doc Document) (*Result, error) {
	units := o.discoverUnits(ctx, doc)

	var evaluations map[string]UnitEvaluation
	switch {
	case o.mode == ModeQuick:
		o.logger.Info("skipping unit evaluation", zap.String("reason", "quick mode"))
		evaluations = map[string]UnitEvaluation{}
	case len(units) == 0:
		o.logger.Info("skipping unit evaluation", zap.String("reason", "no units discovered"))
		evaluations = map[string]UnitEvaluation{}
	default:
		evaluations = o.evaluateUnits(ctx, doc, units)
	}

	holistic := o.assess(ctx, doc)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Profile:     o.profile.Name,
		Units:       units,
		Evaluations: evaluations,
		Holistic:    holistic,
	}

	if result.Empty() {
		o.logger.Warn("analysis produced no content", zap.String("profile", o.profile.Name))
	}

	return result, nil
}

// discoverUnits runs the structure stage and normalizes its comma-separated
// reply into unique names in first-seen order.
func (o *Orchestrator) discoverUnits(ctx context.Context, doc Document) []string {
	outputs, err := o.call(ctx, oracle.Request{
		Instruction: o.profile.Structure,
		Inputs:      map[string]string{o.profile.DocumentField: doc.Text()},
		Outputs:     []string{o.profile.UnitsField},
	})
	if err != nil {
		o.logger.Warn("structure stage failed", zap.Error(err))
		return nil
	}

	names := normalize.ExtractList(outputs[o.profile.UnitsField], ",")

	units := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if o.profile.TitleCaseUnits {
			name = normalize.NormalizeLabel(name)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		units = append(units, name)
	}

	o.logger.Info("discovered units",
		zap.Int("count", len(units)),
		zap.Strings("units", units),
	)

	return units
}

type unitResult struct {
	unit string
	eval UnitEvaluation
	err  error
}

// evaluateUnits fans the evaluation stage out over a bounded worker pool.
// Results are aggregated by this single goroutine, so the map is never
// shared. One unit's failure never affects the others.
func (o *Orchestrator) evaluateUnits(ctx context.Context, doc Document, units []string) map[string]UnitEvaluation {
	jobs := make(chan string)
	results := make(chan unitResult)

	workers := o.workers
	if workers > len(units) {
		workers = len(units)
	}

	for i := 0; i < workers; i++ {
		go func() {
			for unit := range jobs {
				eval, err := o.evaluateUnit(ctx, doc, unit)
				select {
				case results <- unitResult{unit: unit, eval: eval, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, unit := range units {
			select {
			case jobs <- unit:
			case <-ctx.Done():
				return
			}
		}
	}()

	evaluations := make(map[string]UnitEvaluation, len(units))
	pending := len(units)
	for pending > 0 {
		select {
		case res := <-results:
			pending--
			if res.err != nil {
				o.logger.Warn("unit evaluation failed",
					zap.String("unit", res.unit),
					zap.Error(res.err),
				)
				continue
			}
			evaluations[res.unit] = res.eval
			o.logger.Info("unit evaluated",
				zap.String("unit", res.unit),
				zap.Float64("score", res.eval.Score),
				zap.String("quality", string(res.eval.Quality)),
			)
		case <-ctx.Done():
			return evaluations
		}
	}

	return evaluations
}

func (o *Orchestrator) evaluateUnit(ctx context.Context, doc Document, unit string) (UnitEvaluation, error) {
	outputs, err := o.call(ctx, oracle.Request{
		Instruction: o.profile.Evaluate,
		Inputs: map[string]string{
			o.profile.UnitField: unit,
			"text":              doc.Text(),
		},
		Outputs: []string{"analysis", "score"},
	})
	if err != nil {
		return UnitEvaluation{}, err
	}

	var decoded evaluationOutputs
	if err := mapstructure.Decode(outputs, &decoded); err != nil {
		return UnitEvaluation{}, fmt.Errorf("decode evaluation outputs: %w", err)
	}

	quality := normalize.MapQualityToStars(decoded.Analysis)

	return UnitEvaluation{
		Narrative: decoded.Analysis,
		Score:     normalize.ExtractScore(decoded.Score, o.profile.ScoreMin, o.profile.ScoreMax),
		Quality:   quality,
		Stars:     quality.Stars(),
	}, nil
}

// assess runs the holistic stage over the whole document rather than the
// per-unit results, so evaluation failures cannot cascade into it.
func (o *Orchestrator) assess(ctx context.Context, doc Document) HolisticAssessment {
	fields := make([]string, 0, len(o.profile.Lists)+1)
	fields = append(fields, "summary")
	for _, spec := range o.profile.Lists {
		fields = append(fields, spec.Category)
	}

	outputs, err := o.call(ctx, oracle.Request{
		Instruction: o.profile.Holistic,
		Inputs:      map[string]string{o.profile.DocumentField: doc.Text()},
		Outputs:     fields,
	})
	if err != nil {
		o.logger.Warn("holistic stage failed", zap.Error(err))
		outputs = map[string]string{}
	}

	lists := make([]LabeledList, 0, len(o.profile.Lists))
	for _, spec := range o.profile.Lists {
		lists = append(lists, LabeledList{
			Category: spec.Category,
			Items:    normalize.ExtractList(outputs[spec.Category], spec.Delimiter),
		})
	}

	return HolisticAssessment{
		Summary: strings.TrimSpace(outputs["summary"]),
		Lists:   lists,
	}
}

func (o *Orchestrator) call(ctx context.Context, req oracle.Request) (map[string]string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	return o.oracle.Call(ctx, req)
}
