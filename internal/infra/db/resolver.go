package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// naturalKey describes one entity kind for the resolver: how it maps to its row and
// which columns identify it.
type naturalKey[D any, M any] struct {
	kind     string
	toModel  func(D) M
	toDomain func(M) D
	where    func(M) (string, []any)
	fields   func(M) []zap.Field
	// backfill returns the columns to fill on an existing row, if any.
	backfill func(stored, candidate M) map[string]any
}

type resolver[D any, M any] struct {
	db     *gorm.DB
	logger *zap.Logger
	key    naturalKey[D, M]
}

func (r resolver[D, M]) ResolveOrCreate(ctx context.Context, candidate D) (D, bool, error) {
	var zero D
	model := r.key.toModel(candidate)
	fields := append([]zap.Field{zap.String("kind", r.key.kind)}, r.key.fields(model)...)

	stored, err := r.lookup(ctx, model)
	if err == nil {
		r.applyBackfill(ctx, &stored, model, fields)
		return r.key.toDomain(stored), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error("natural key lookup failed", append(fields, zap.Error(err))...)
		return zero, false, fmt.Errorf("lookup %s: %w", r.key.kind, err)
	}

	var inserted int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
		inserted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			r.logger.Warn("create rejected by constraint", append(fields, zap.Error(err))...)
			return zero, false, fmt.Errorf("%w: create %s: %v", domain.ErrResolution, r.key.kind, err)
		}
		r.logger.Error("create failed", append(fields, zap.Error(err))...)
		return zero, false, fmt.Errorf("create %s: %w", r.key.kind, err)
	}
	if inserted > 0 {
		r.logger.Debug("row created", fields...)
		return r.key.toDomain(model), true, nil
	}

	// the insert hit a unique constraint: either a concurrent writer won the key or
	// another unique column collided
	stored, err = r.lookup(ctx, model)
	switch {
	case err == nil:
		r.logger.Debug("row created concurrently, reusing it", fields...)
		return r.key.toDomain(stored), false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		r.logger.Warn("create conflicted on another unique column", fields...)
		return zero, false, fmt.Errorf("%w: create %s: conflicting unique column", domain.ErrResolution, r.key.kind)
	default:
		r.logger.Error("natural key lookup failed", append(fields, zap.Error(err))...)
		return zero, false, fmt.Errorf("lookup %s: %w", r.key.kind, err)
	}
}

func (r resolver[D, M]) lookup(ctx context.Context, model M) (M, error) {
	var found M
	query, args := r.key.where(model)
	err := r.db.WithContext(ctx).Where(query, args...).Take(&found).Error
	return found, err
}

func (r resolver[D, M]) applyBackfill(ctx context.Context, stored *M, candidate M, fields []zap.Field) {
	if r.key.backfill == nil {
		return
	}
	updates := r.key.backfill(*stored, candidate)
	if len(updates) == 0 {
		return
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(stored).Updates(updates).Error
	})
	if err != nil {
		r.logger.Warn("backfill failed", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Info("row backfilled", append(fields, zap.Any("updates", updates))...)
}

func isConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated)
}
