package aggregate

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// Pipeline applies a sequence of operations to a table and threads the
// chaining state between them explicitly, so that labels recorded by one
// step reach the next even when the caller rebuilds tables in between
// (see WithChain). The first failing step stops the pipeline; later steps
// are no-ops and Result reports the error.
type Pipeline struct {
	table *types.Table
	cfg   types.AggregationConfig
	chain types.ChainState
	log   *zap.Logger
	step  int
	err   error
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger logs every step at debug level.
func WithLogger(log *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithChain seeds the pipeline with chaining state from an earlier run. It
// is merged with whatever the input table carries.
func WithChain(chain types.ChainState) PipelineOption {
	return func(p *Pipeline) {
		for component, labels := range chain {
			p.chain = p.chain.Merge(component, labels)
		}
	}
}

// NewPipeline starts a pipeline on a copy of t.
func NewPipeline(t *types.Table, cfg types.AggregationConfig, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		table: t.Clone(),
		cfg:   cfg,
		chain: t.Chain.Clone(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.err = cfg.Validate(); p.err != nil {
		p.log.Debug("Invalid aggregation config", zap.Error(p.err))
	}
	return p
}

func (p *Pipeline) apply(name string, fn func(*types.Table) (*types.Table, error)) *Pipeline {
	if p.err != nil {
		return p
	}
	p.step++
	in := p.table.Clone()
	in.Chain = p.chain.Clone()

	out, err := fn(in)
	if err != nil {
		p.err = err
		p.log.Debug("Pipeline step failed",
			zap.Int("step", p.step),
			zap.String("op", name),
			zap.Error(err))
		return p
	}
	p.table = out
	p.chain = out.Chain.Clone()
	p.log.Debug("Pipeline step",
		zap.Int("step", p.step),
		zap.String("op", name),
		zap.Int("rows", out.Rows.Len()),
		zap.Int("cols", out.Cols.Len()),
		zap.Strings("ignored", p.chain.All().Sorted()))
	return p
}

// AddTotals adds grand totals.
func (p *Pipeline) AddTotals(opts TotalsOptions) *Pipeline {
	return p.apply("totals", func(t *types.Table) (*types.Table, error) {
		return AddTotals(t, p.cfg, opts)
	})
}

// AddSubtotals adds subtotals.
func (p *Pipeline) AddSubtotals(opts SubtotalsOptions) *Pipeline {
	return p.apply("subtotals", func(t *types.Table) (*types.Table, error) {
		return AddSubtotals(t, p.cfg, opts)
	})
}

// AddAgg adds an aggregate computed by r. Labels recorded in the chain are
// added to opts.Ignore.
func (p *Pipeline) AddAgg(r Reducer, opts AggOptions) *Pipeline {
	return p.apply("agg "+r.Name, func(t *types.Table) (*types.Table, error) {
		opts.Ignore = opts.Ignore.Union(t.Chain.All())
		return AddAgg(t, r, opts)
	})
}

// AddSubAgg adds subaggregates computed by r. Labels recorded in the chain
// are added to opts.Ignore.
func (p *Pipeline) AddSubAgg(r Reducer, opts SubAggOptions) *Pipeline {
	return p.apply("subagg "+r.Name, func(t *types.Table) (*types.Table, error) {
		opts.Ignore = opts.Ignore.Union(t.Chain.All())
		return AddSubAgg(t, r, opts)
	})
}

// AsPercentages transforms the table to percentages.
func (p *Pipeline) AsPercentages(opts PercentOptions) *Pipeline {
	return p.apply("as percentages", func(t *types.Table) (*types.Table, error) {
		return AsPercentages(t, p.cfg, opts)
	})
}

// AddPercentages adds percentage columns.
func (p *Pipeline) AddPercentages(opts PercentOptions) *Pipeline {
	return p.apply("add percentages", func(t *types.Table) (*types.Table, error) {
		return AddPercentages(t, p.cfg, opts)
	})
}

// Drop removes rows or columns carrying any of labels.
func (p *Pipeline) Drop(dir types.Direction, labels types.LabelSet) *Pipeline {
	return p.apply("drop", func(t *types.Table) (*types.Table, error) {
		return DropAggregates(t, dir, labels)
	})
}

// AddLevel inserts value as a new key component along dir.
func (p *Pipeline) AddLevel(dir types.Direction, value string, position int, name string) *Pipeline {
	return p.apply("add level", func(t *types.Table) (*types.Table, error) {
		return AddLevel(t, dir, value, position, name)
	})
}

// Err returns the error that stopped the pipeline, if any.
func (p *Pipeline) Err() error { return p.err }

// Result returns the final table and the chaining state accumulated over all
// steps. The table is a copy; its Chain equals the returned state.
func (p *Pipeline) Result() (*types.Table, types.ChainState, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	out := p.table.Clone()
	out.Chain = p.chain.Clone()
	return out, p.chain.Clone(), nil
}
