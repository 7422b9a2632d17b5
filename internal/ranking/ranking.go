// Package ranking turns series vote tallies into an ordered leaderboard.
package ranking

import (
	"context"
	"sort"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// Average returns total/count, or 0 when nobody voted.
func Average(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// FinalScore is the mean of the five category averages. A series without a
// detail row scores 0.
func FinalScore(d *model.SeriesDetail) float64 {
	if d == nil {
		return 0
	}
	var sum float64
	for _, c := range model.Categories {
		sum += Average(d.Tally(c))
	}
	return sum / float64(len(model.Categories))
}

// Compute scores rows and orders them: series with a positive score first,
// highest score first and ranked 1..n, then the rest unranked. Ties and the
// unranked tail keep the input order.
func Compute(rows []repository.SeriesWithDetail) []model.RankedSeries {
	ranked := make([]model.RankedSeries, 0, len(rows))
	var unranked []model.RankedSeries
	for _, r := range rows {
		rs := model.RankedSeries{Series: r.Series, FinalScore: FinalScore(r.Detail)}
		if rs.FinalScore > 0 {
			ranked = append(ranked, rs)
		} else {
			unranked = append(unranked, rs)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	for i := range ranked {
		rank := i + 1
		ranked[i].Rank = &rank
	}
	return append(ranked, unranked...)
}

// Page returns the 1-based page of list. Out of range pages are empty.
func Page(list []model.RankedSeries, page, size int) []model.RankedSeries {
	if page < 1 || size < 1 {
		return []model.RankedSeries{}
	}
	start := (page - 1) * size
	if start >= len(list) {
		return []model.RankedSeries{}
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// Find returns the entry for seriesID.
func Find(list []model.RankedSeries, seriesID int64) (*model.RankedSeries, bool) {
	for i := range list {
		if list[i].ID == seriesID {
			return &list[i], true
		}
	}
	return nil, false
}

// Cache stores computed leaderboards under an invalidation generation.
// Implementations must tolerate backend failures by reporting misses.
type Cache interface {
	// Get returns the leaderboard stored for key in the current generation.
	// A miss still reports the generation it observed, which the caller
	// passes to Set once it has computed the list.
	Get(ctx context.Context, key string) (list []model.RankedSeries, gen int64, ok bool)
	// Set stores list under gen. A list computed before an Invalidate lands in
	// a retired generation and is never served.
	Set(ctx context.Context, key string, gen int64, list []model.RankedSeries)
	// Invalidate starts a new generation, retiring every cached leaderboard.
	Invalidate(ctx context.Context)
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]model.RankedSeries, int64, bool) {
	return nil, 0, false
}
func (NopCache) Set(context.Context, string, int64, []model.RankedSeries) {}
func (NopCache) Invalidate(context.Context)                               {}

// Key names the cached leaderboard for an optional type filter.
func Key(t *model.SeriesType) string {
	if t == nil {
		return "all"
	}
	return string(*t)
}
