package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements Repository on a relational table through GORM.
// Ids are UUID strings.
type GormRepository[T any, PT models.Document[T]] struct {
	db *gorm.DB
}

// NewGormRepository creates a repository for T's table
func NewGormRepository[T any, PT models.Document[T]](db *gorm.DB) *GormRepository[T, PT] {
	return &GormRepository[T, PT]{
		db: db,
	}
}

// List returns matching rows in the requested order
func (r *GormRepository[T, PT]) List(ctx context.Context, q Query) ([]T, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	if s := normalizeSearch(q.Search); s != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(s)+"%")
	}

	if q.SortField != "" {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: r.db.NamingStrategy.ColumnName("", q.SortField)},
			Desc:   q.Descending,
		})
	}

	out := make([]T, 0)
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

// GetByID returns the row with the given id
func (r *GormRepository[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var doc T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translateGorm(err)
	}
	return &doc, nil
}

// Create inserts doc with a fresh UUID and both timestamps
func (r *GormRepository[T, PT]) Create(ctx context.Context, doc *T) error {
	ts := now()
	PT(doc).AssignID(uuid.NewString())
	PT(doc).Stamp(ts, ts)

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update overwrites every column of the existing row except id and created_at.
// The write itself is conditional on the row existing, so a concurrent delete
// is never undone.
func (r *GormRepository[T, PT]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	PT(doc).AssignID(id)
	PT(doc).Stamp(time.Time{}, now())

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(doc)
	if res.Error != nil {
		return nil, fmt.Errorf("update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the row and returns its prior state
func (r *GormRepository[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return nil, fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func translateGorm(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
