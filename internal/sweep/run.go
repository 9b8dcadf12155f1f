package sweep

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

var tracer = otel.Tracer("qmulcost.sweep")

// ProgressBufferMultiplier sizes the progress channel per series so slow
// reporters rarely block evaluators.
const ProgressBufferMultiplier = 5

// progressSteps is the number of intermediate updates sent per series.
const progressSteps = 100

type runOptions struct {
	workers int
	logger  zerolog.Logger
}

// Option configures Run.
type Option func(*runOptions)

// WithWorkers caps how many series are evaluated at once. Zero or less
// means no cap.
func WithWorkers(n int) Option {
	return func(o *runOptions) { o.workers = n }
}

// WithLogger sets the logger for per-series debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *runOptions) { o.logger = l }
}

// Run evaluates every evaluator over rng, one goroutine per series. The
// first failure cancels the remaining series and is returned; no partial
// results are returned in that case. Results keep the order of evaluators.
func Run(ctx context.Context, evaluators []Evaluator, rng Range, reporter ProgressReporter, out io.Writer, opts ...Option) ([]Series, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	o := runOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	ctx, span := tracer.Start(ctx, "sweep.Run", trace.WithAttributes(
		attribute.Int("sweep.from", rng.From),
		attribute.Int("sweep.to", rng.To),
		attribute.Int("sweep.step", rng.Step),
		attribute.Int("sweep.series", len(evaluators)),
	))
	defer span.End()

	sizes := rng.Sizes()
	results := make([]Series, len(evaluators))
	progressChan := make(chan ProgressUpdate, len(evaluators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(evaluators), out)

	g, gctx := errgroup.WithContext(ctx)
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}
	for i, ev := range evaluators {
		g.Go(func() error {
			s, err := runSeries(gctx, i, ev, sizes, progressChan, o.logger)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWg.Wait()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func runSeries(ctx context.Context, idx int, ev Evaluator, sizes []int, progressChan chan<- ProgressUpdate, logger zerolog.Logger) (Series, error) {
	name := ev.Name()
	ctx, span := tracer.Start(ctx, "sweep.Series", trace.WithAttributes(
		attribute.String("series.name", name),
		attribute.Int("series.index", idx),
	))
	defer span.End()

	start := time.Now()
	points := make([]Point, 0, len(sizes))
	every := max(1, len(sizes)/progressSteps)

	for i, n := range sizes {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "context canceled")
			return Series{}, err
		}
		v, err := ev.Evaluate(n)
		if err != nil {
			err = apperrors.WrapError(err, "series %q", name)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Series{}, err
		}
		points = append(points, Point{N: n, Value: v})
		if (i+1)%every == 0 && i+1 < len(sizes) {
			select {
			case progressChan <- ProgressUpdate{SeriesIndex: idx, Value: float64(i+1) / float64(len(sizes))}:
			default:
			}
		}
	}

	select {
	case progressChan <- ProgressUpdate{SeriesIndex: idx, Value: 1}:
	case <-ctx.Done():
	}

	d := time.Since(start)
	span.SetAttributes(attribute.Int("series.points", len(points)))
	logger.Debug().
		Str("series", name).
		Int("points", len(points)).
		Dur("duration", d).
		Msg("series evaluated")
	return Series{Name: name, Points: points, Duration: d}, nil
}
