package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

// System manages persisted settings.
type System interface {
	Handler() *Handler

	Thresholds(ctx context.Context) ([]Threshold, error)
	SaveThreshold(ctx context.Context, geographyType string, cmd ThresholdCommand) (*Threshold, error)
	DeleteThreshold(ctx context.Context, geographyType string) error

	Watchlist(ctx context.Context, page pagination.PageRequest, filter WatchlistFilter) (*pagination.PageResult[WatchlistEntry], error)
	AddRegion(ctx context.Context, region string) (*WatchlistEntry, error)
	RemoveRegion(ctx context.Context, id uuid.UUID) error

	// RestoreDefaults replaces both tables with the default contents.
	RestoreDefaults(ctx context.Context) error
}

var mapErr = repository.Errors{NotFound: ErrNotFound, Duplicate: ErrDuplicate, Invalid: ErrInvalid}

const (
	thresholdColumns = "geography_type, amber, red, updated_at"
	watchlistColumns = "id, region, created_at"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "settings"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func scanThreshold(s repository.Scanner) (Threshold, error) {
	var t Threshold
	err := s.Scan(&t.GeographyType, &t.Amber, &t.Red, &t.UpdatedAt)
	return t, err
}

func scanWatchlistEntry(s repository.Scanner) (WatchlistEntry, error) {
	var e WatchlistEntry
	err := s.Scan(&e.ID, &e.Region, &e.CreatedAt)
	return e, err
}

func (r *repo) Thresholds(ctx context.Context) ([]Threshold, error) {
	q, args := query.NewBuilder(thresholdProjection, thresholdSort).Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanThreshold)
	if err != nil {
		return nil, fmt.Errorf("query thresholds: %w", err)
	}
	return items, nil
}

func (r *repo) SaveThreshold(ctx context.Context, geographyType string, cmd ThresholdCommand) (*Threshold, error) {
	geographyType = strings.TrimSpace(geographyType)
	if err := validateThreshold(geographyType, cmd); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO threshold_configs (geography_type, amber, red)
		VALUES ($1, $2, $3)
		ON CONFLICT (geography_type) DO UPDATE SET
			amber = EXCLUDED.amber,
			red = EXCLUDED.red,
			updated_at = NOW()
		RETURNING ` + thresholdColumns

	t, err := repository.QueryOne(ctx, r.db, q, []any{geographyType, cmd.Amber, cmd.Red}, scanThreshold)
	if err != nil {
		return nil, mapErr.Map(err)
	}

	r.logger.Info("threshold saved", "geography_type", t.GeographyType, "amber", t.Amber, "red", t.Red)
	return &t, nil
}

func (r *repo) DeleteThreshold(ctx context.Context, geographyType string) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM threshold_configs WHERE geography_type = $1", geographyType)
	if err != nil {
		return mapErr.Map(err)
	}

	r.logger.Info("threshold deleted", "geography_type", geographyType)
	return nil
}

func (r *repo) Watchlist(
	ctx context.Context,
	page pagination.PageRequest,
	filter WatchlistFilter,
) (*pagination.PageResult[WatchlistEntry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(watchlistProjection, watchlistSort...).
		WhereSearch(filter.Search, "region")

	if len(filter.Sort) > 0 {
		qb.OrderByFields(filter.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count watchlist: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanWatchlistEntry)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) AddRegion(ctx context.Context, region string) (*WatchlistEntry, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, fmt.Errorf("%w: region required", ErrInvalid)
	}

	q := "INSERT INTO watchlist (region) VALUES ($1) RETURNING " + watchlistColumns
	e, err := repository.QueryOne(ctx, r.db, q, []any{region}, scanWatchlistEntry)
	if err != nil {
		return nil, mapErr.Map(err)
	}

	r.logger.Info("region added to watchlist", "region", e.Region)
	return &e, nil
}

func (r *repo) RemoveRegion(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM watchlist WHERE id = $1", id); err != nil {
		return mapErr.Map(err)
	}

	r.logger.Info("region removed from watchlist", "id", id)
	return nil
}

func (r *repo) RestoreDefaults(ctx context.Context) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM threshold_configs"); err != nil {
			return struct{}{}, fmt.Errorf("clear thresholds: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM watchlist"); err != nil {
			return struct{}{}, fmt.Errorf("clear watchlist: %w", err)
		}

		for _, t := range DefaultThresholds() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO threshold_configs (geography_type, amber, red) VALUES ($1, $2, $3)",
				t.GeographyType, t.Amber, t.Red,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert threshold %s: %w", t.GeographyType, err)
			}
		}
		for _, region := range DefaultWatchlist() {
			if _, err := tx.ExecContext(ctx, "INSERT INTO watchlist (region) VALUES ($1)", region); err != nil {
				return struct{}{}, fmt.Errorf("insert region %s: %w", region, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("settings restored to defaults")
	return nil
}

func validateThreshold(geographyType string, cmd ThresholdCommand) error {
	if geographyType == "" {
		return fmt.Errorf("%w: geography type required", ErrInvalid)
	}
	if cmd.Amber < 0 || cmd.Amber > 100 || cmd.Red < 0 || cmd.Red > 100 {
		return fmt.Errorf("%w: thresholds must be between 0 and 100", ErrInvalid)
	}
	return nil
}
