package persistence

import (
	"gorm.io/gorm"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// orderColumns are the only columns listings may sort by. Anything else
// falls back to creation time, which keeps ORDER BY free of injection.
var orderColumns = map[string]string{
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"sequence_id": "sequence_id",
}

func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	column, ok := orderColumns[filter.OrderBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.OrderDir == "asc" {
		direction = "ASC"
	}
	return query.
		Order(column + " " + direction).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
