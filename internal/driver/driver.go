// Package driver orchestrates batch analysis over a loaded workspace:
// parallel signature validation and call resolution, and the optional
// catalog snapshot cache on disk.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"expandc/internal/catalog"
	"expandc/internal/diag"
	"expandc/internal/expand"
	"expandc/internal/project"
)

// SignatureResult is the validation outcome for one declared callable.
type SignatureResult struct {
	Name string
	Bag  *diag.Bag
}

// CallResult is the resolution outcome for one call site.
type CallResult struct {
	Fn         string
	Resolution expand.Resolution
	Bag        *diag.Bag
}

// Options configure an analysis run.
type Options struct {
	MaxDiagnostics int
	Jobs           int
	// Snapshots, when set, primes the in-memory catalog cache from disk
	// and writes the built catalogs back after the run.
	Snapshots *DiskCache
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

func (o Options) jobs(items int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > items {
		jobs = items
	}
	if jobs < 1 {
		jobs = 1
	}
	return jobs
}

// ValidateAll validates every signature in the workspace in parallel.
// Results keep workspace declaration order regardless of scheduling.
func ValidateAll(ctx context.Context, ws *project.Workspace, opts Options) ([]SignatureResult, error) {
	results := make([]SignatureResult, len(ws.Signatures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(ws.Signatures)))

	for i := range ws.Signatures {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			named := ws.Signatures[i]
			bag := diag.NewBag(opts.maxDiagnostics())
			for _, d := range expand.ValidateSignature(named.Sig, ws.Types) {
				bag.Add(d)
			}
			bag.Sort()
			results[i] = SignatureResult{Name: named.Name, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ResolveAll resolves every call site in the workspace in parallel. All
// goroutines share one insert-once catalog cache, so concurrent calls
// into the same frozen catalog build it exactly once.
func ResolveAll(ctx context.Context, ws *project.Workspace, opts Options) ([]CallResult, error) {
	cache := catalog.NewCache(&catalog.Builder{Table: ws.Table, Types: ws.Types})
	if opts.Snapshots != nil {
		if entries, ok, err := opts.Snapshots.Get(ws); err == nil && ok {
			cache.Prime(entries)
		}
	}

	results := make([]CallResult, len(ws.Calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(ws.Calls)))

	for i := range ws.Calls {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			call := ws.Calls[i]
			bag := diag.NewBag(opts.maxDiagnostics())
			sig, ok := ws.SignatureByName(call.Fn)
			if !ok {
				bag.Add(diag.NewError(diag.IOUnknownSignature, call.Span, "call targets unknown function "+call.Fn))
				results[i] = CallResult{Fn: call.Fn, Bag: bag}
				return nil
			}
			res := expand.Resolve(sig, call.Args, call.Site, expand.Options{
				Types:    ws.Types,
				Table:    ws.Table,
				Catalogs: cache,
				Reporter: diag.BagReporter{Bag: bag},
			})
			bag.Sort()
			results[i] = CallResult{Fn: call.Fn, Resolution: res, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Snapshots != nil {
		// Snapshot write failures degrade silently to uncached runs; the
		// caller can surface IOCacheUnavailable if it cares.
		_ = opts.Snapshots.Put(ws, cache)
	}
	return results, nil
}

// MergeBags collects every diagnostic from the per-item results into one
// sorted bag for rendering.
func MergeBags(sigResults []SignatureResult, callResults []CallResult) *diag.Bag {
	total := 0
	for _, r := range sigResults {
		total += r.Bag.Len()
	}
	for _, r := range callResults {
		total += r.Bag.Len()
	}
	merged := diag.NewBag(total + 1)
	for _, r := range sigResults {
		merged.Merge(r.Bag)
	}
	for _, r := range callResults {
		merged.Merge(r.Bag)
	}
	merged.Sort()
	merged.Dedup()
	return merged
}
