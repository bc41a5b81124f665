package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"chitieu/internal/aggregate"
	"chitieu/internal/cache"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/metrics"
	"chitieu/internal/store"
)

// Options configures a TrackerService. Zero values fall back to defaults.
type Options struct {
	Years     core.YearRange
	CacheSize int
	CacheTTL  time.Duration
	Logger    *log.Logger
	Metrics   *metrics.Metrics
}

// Settings is the static configuration a client needs to build its forms.
type Settings struct {
	Groups       []core.Group
	PresetColors []core.PresetColor
	DefaultColor string
	Years        []int
}

// TrackerService is the query and mutation surface used by the presentation
// layer. Derived views are cached per snapshot version, so a cached view is
// always consistent with the snapshot it was computed from.
type TrackerService struct {
	store      *store.Store
	years      core.YearRange
	dashboards *cache.LRUCache[aggregate.Dashboard]
	yearly     *cache.LRUCache[aggregate.Yearly]
	flight     singleflight.Group
	logger     *log.StructuredLogger
	metrics    *metrics.Metrics
}

func NewTrackerService(st *store.Store, opts Options) *TrackerService {
	if opts.Years == (core.YearRange{}) {
		opts.Years = core.DefaultYearRange
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	s := &TrackerService{
		store:      st,
		years:      opts.Years,
		dashboards: cache.NewLRUCache[aggregate.Dashboard](opts.CacheSize, opts.CacheTTL),
		yearly:     cache.NewLRUCache[aggregate.Yearly](opts.CacheSize, opts.CacheTTL),
		logger:     log.NewStructuredLogger(opts.Logger.WithComponent(log.ComponentTracker)),
		metrics:    opts.Metrics,
	}

	snap := st.Snapshot()
	s.metrics.Snapshot(snap.Len(), snap.Version())
	st.OnChange(func(_ string, next *store.Snapshot) {
		// Older versions can no longer be requested.
		s.dashboards.Purge()
		s.yearly.Purge()
		s.metrics.Snapshot(next.Len(), next.Version())
	})
	return s
}

// Caches returns the view caches for registration with a cache.Manager.
func (s *TrackerService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.dashboards, s.yearly}
}

// Years returns the selectable year range.
func (s *TrackerService) Years() core.YearRange {
	return s.years
}

func (s *TrackerService) Settings() Settings {
	groups := make([]core.Group, len(core.Groups))
	copy(groups, core.Groups)
	colors := make([]core.PresetColor, len(core.PresetColors))
	copy(colors, core.PresetColors)
	return Settings{
		Groups:       groups,
		PresetColors: colors,
		DefaultColor: core.DefaultColor,
		Years:        s.years.Years(),
	}
}

// Dashboard returns totals, pie, group totals and the filtered category
// list for q. The returned value is shared with the cache and must be
// treated as read-only.
func (s *TrackerService) Dashboard(ctx context.Context, q core.Query) (aggregate.Dashboard, error) {
	if err := q.Validate(s.years); err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	if q.MatchesAllGroups() {
		q.Group = core.GroupAll
	}

	snap := s.store.Snapshot()
	key := cache.DashboardKey(snap.Version(), q)
	// Queries sharing a key may differ in search case; echo the caller's own.
	if d, ok := s.dashboards.Get(key); ok {
		s.metrics.CacheHit(metrics.ViewDashboard)
		d.Query = q
		return d, nil
	}
	s.metrics.CacheMiss(metrics.ViewDashboard)

	v, _, _ := s.flight.Do(key, func() (any, error) {
		d := aggregate.BuildDashboard(snap.Categories(), q)
		s.dashboards.Set(key, d)
		s.reportSkipped(ctx, d.Totals.SkippedItems, q.Month, q.Year)
		return d, nil
	})
	d := v.(aggregate.Dashboard)
	d.Query = q
	return d, nil
}

// Yearly returns the month-by-month totals of year over every category.
func (s *TrackerService) Yearly(ctx context.Context, year int) (aggregate.Yearly, error) {
	if !s.years.Contains(year) {
		return aggregate.Yearly{}, fmt.Errorf("yearly summary: %w", core.ErrInvalidYear)
	}

	snap := s.store.Snapshot()
	key := cache.YearlyKey(snap.Version(), year)
	if y, ok := s.yearly.Get(key); ok {
		s.metrics.CacheHit(metrics.ViewYearly)
		return y, nil
	}
	s.metrics.CacheMiss(metrics.ViewYearly)

	v, _, _ := s.flight.Do(key, func() (any, error) {
		y := aggregate.YearlyBreakdown(snap.Categories(), year)
		s.yearly.Set(key, y)
		s.reportSkipped(ctx, y.SkippedItems, 0, year)
		return y, nil
	})
	return v.(aggregate.Yearly), nil
}

// CategoryDetail returns one category projected onto (month, year) with its
// items newest first.
func (s *TrackerService) CategoryDetail(ctx context.Context, id string, month, year int) (aggregate.CategoryView, error) {
	q := core.Query{Month: month, Year: year}
	if err := q.Validate(s.years); err != nil {
		return aggregate.CategoryView{}, fmt.Errorf("category detail: %w", err)
	}
	cat, ok := s.store.Snapshot().Category(id)
	if !ok {
		return aggregate.CategoryView{}, fmt.Errorf("category detail: %w: category %q", core.ErrNotFound, id)
	}
	return aggregate.CategoryDetail(cat, month, year), nil
}

// Categories lists the stored categories in insertion order.
func (s *TrackerService) Categories(_ context.Context) []core.Category {
	return s.store.Snapshot().Categories()
}

func (s *TrackerService) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	c, err := s.store.CreateCategory(ctx, in)
	fields := log.NewFields().WithCategory(c.ID, in.Name)
	if err := s.record(ctx, store.OpCreateCategory, fields, err); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *TrackerService) UpdateCategory(ctx context.Context, id string, in core.CategoryInput) error {
	err := s.store.UpdateCategory(ctx, id, in)
	fields := log.NewFields().WithCategory(id, in.Name)
	if err := s.record(ctx, store.OpUpdateCategory, fields, err); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category and every item it owns.
func (s *TrackerService) DeleteCategory(ctx context.Context, id string) error {
	err := s.store.DeleteCategory(ctx, id)
	fields := log.NewFields().WithCategory(id, "")
	if err := s.record(ctx, store.OpDeleteCategory, fields, err); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *TrackerService) AddExpenseItem(ctx context.Context, categoryID string, in core.ItemInput) (core.ExpenseItem, error) {
	item, err := s.store.AddExpenseItem(ctx, categoryID, in)
	fields := log.NewFields().WithCategory(categoryID, "").WithItem(item.ID, in.Title, in.Amount)
	if err := s.record(ctx, store.OpAddItem, fields, err); err != nil {
		return core.ExpenseItem{}, fmt.Errorf("add expense item: %w", err)
	}
	return item, nil
}

func (s *TrackerService) RemoveExpenseItem(ctx context.Context, categoryID, itemID string) error {
	err := s.store.RemoveExpenseItem(ctx, categoryID, itemID)
	fields := log.NewFields().WithCategory(categoryID, "")
	fields[log.FieldItemID] = itemID
	if err := s.record(ctx, store.OpRemoveItem, fields, err); err != nil {
		return fmt.Errorf("remove expense item: %w", err)
	}
	return nil
}

// record logs and counts a mutation attempt and passes err through.
func (s *TrackerService) record(ctx context.Context, op string, fields log.LogFields, err error) error {
	outcome := Outcome(err)
	s.metrics.Mutation(op, outcome)

	switch outcome {
	case metrics.OutcomeOK:
		s.logger.LogMutation(ctx, op, s.store.Snapshot().Version(), fields)
	case metrics.OutcomeInvalid, metrics.OutcomeNotFound:
		s.logger.Logger().WarnContext(ctx, "Mutation rejected",
			append(fields.WithOperation(op).WithError(err).ToSlice(), "outcome", outcome)...)
	default:
		s.logger.LogError(ctx, "Mutation failed", err, log.ComponentStore, op, fields)
	}
	return err
}

func (s *TrackerService) reportSkipped(ctx context.Context, skipped, month, year int) {
	if skipped == 0 {
		return
	}
	s.metrics.Skipped(skipped)
	s.logger.LogSkipped(ctx, skipped, month, year)
}

// Outcome classifies a mutation error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, core.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidDate):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
