package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Sequence is one named counter row
type Sequence struct {
	Name string `gorm:"type:varchar(100);primaryKey"`
	Seq  int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "sequences"
}

// GormSequenceRepository implements shared.SequenceRepository on a single
// upsert statement, so increments stay atomic under concurrent callers.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new sequence repository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments and returns the counter in one statement:
// INSERT ... ON CONFLICT (name) DO UPDATE SET seq = sequences.seq + 1
// RETURNING seq. The first call for a name returns 1.
func (r *GormSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	seq := Sequence{Name: name, Seq: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"seq": gorm.Expr("sequences.seq + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "seq"}}},
		).
		Create(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.Seq, nil
}

// Current returns the last handed-out value without consuming one.
// A sequence that was never used reads as 0.
func (r *GormSequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	var seq Sequence
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Seq, nil
}

var _ shared.SequenceRepository = (*GormSequenceRepository)(nil)
