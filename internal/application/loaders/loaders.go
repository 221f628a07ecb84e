package loaders

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
)

// Loaders batches reference-data lookups so that large ID sets collected
// from fact rows turn into a bounded number of IN queries. Loaders carry
// no cache and are constructed per request: reference data is always read
// fresh, batching is the only service they provide.
type Loaders struct {
	TestLoader *dataloader.Loader[int64, *entities.CanonicalTest]
	LabLoader  *dataloader.Loader[int64, *entities.Lab]
}

// NewLoaders creates loaders over the given repositories. batchSize caps
// how many keys a single backing query may carry. metrics may be nil.
func NewLoaders(
	testRepo repositories.TestRepository,
	labRepo repositories.LabRepository,
	batchSize int,
	metrics *observability.Metrics,
) *Loaders {
	return &Loaders{
		TestLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []int64) []*dataloader.Result[*entities.CanonicalTest] {
				if metrics != nil {
					metrics.LookupBatchSize.Record(ctx, int64(len(keys)))
				}
				results := make([]*dataloader.Result[*entities.CanonicalTest], len(keys))
				tests, err := testRepo.GetByIDs(ctx, keys)

				testMap := make(map[int64]*entities.CanonicalTest)
				if err == nil {
					for _, tst := range tests {
						testMap[tst.ID] = tst
					}
				}

				for i, key := range keys {
					if err != nil {
						results[i] = &dataloader.Result[*entities.CanonicalTest]{Error: err}
					} else {
						// Absent IDs resolve to nil so stale fact rows
						// drop out instead of failing the whole batch.
						results[i] = &dataloader.Result[*entities.CanonicalTest]{Data: testMap[key]}
					}
				}
				return results
			},
			dataloader.WithBatchCapacity[int64, *entities.CanonicalTest](batchSize),
			dataloader.WithCache[int64, *entities.CanonicalTest](&dataloader.NoCache[int64, *entities.CanonicalTest]{}),
		),
		LabLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []int64) []*dataloader.Result[*entities.Lab] {
				if metrics != nil {
					metrics.LookupBatchSize.Record(ctx, int64(len(keys)))
				}
				results := make([]*dataloader.Result[*entities.Lab], len(keys))
				labs, err := labRepo.GetByIDs(ctx, keys)

				labMap := make(map[int64]*entities.Lab)
				if err == nil {
					for _, l := range labs {
						labMap[l.ID] = l
					}
				}

				for i, key := range keys {
					if err != nil {
						results[i] = &dataloader.Result[*entities.Lab]{Error: err}
					} else {
						results[i] = &dataloader.Result[*entities.Lab]{Data: labMap[key]}
					}
				}
				return results
			},
			dataloader.WithBatchCapacity[int64, *entities.Lab](batchSize),
			dataloader.WithCache[int64, *entities.Lab](&dataloader.NoCache[int64, *entities.Lab]{}),
		),
	}
}

// TestsByID resolves the given IDs to canonical tests keyed by ID. IDs
// that resolve to nothing are left out of the map.
func (l *Loaders) TestsByID(ctx context.Context, ids []int64) (map[int64]*entities.CanonicalTest, error) {
	values, errs := l.TestLoader.LoadMany(ctx, dedupe(ids))()
	if err := firstError(errs); err != nil {
		return nil, err
	}

	tests := make(map[int64]*entities.CanonicalTest, len(values))
	for _, tst := range values {
		if tst != nil {
			tests[tst.ID] = tst
		}
	}
	return tests, nil
}

// LabsByID resolves the given IDs to labs keyed by ID, skipping absences.
func (l *Loaders) LabsByID(ctx context.Context, ids []int64) (map[int64]*entities.Lab, error) {
	values, errs := l.LabLoader.LoadMany(ctx, dedupe(ids))()
	if err := firstError(errs); err != nil {
		return nil, err
	}

	labs := make(map[int64]*entities.Lab, len(values))
	for _, lab := range values {
		if lab != nil {
			labs[lab.ID] = lab
		}
	}
	return labs, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
