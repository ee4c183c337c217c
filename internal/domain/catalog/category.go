package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Category groups products inside a tenant's catalog. It carries a
// per-tenant integer SequenceID that product payloads reference instead of
// the UUID, matching what the storefront shows.
type Category struct {
	shared.CompanyAggregateRoot
	SequenceID int64         `gorm:"not null;uniqueIndex:,composite:company_seq,priority:2"`
	Name       LocalizedText `gorm:"embedded;embeddedPrefix:name_"`
	Slug       string        `gorm:"type:varchar(200);not null;index"`
	ImageURL   string        `gorm:"type:varchar(500)"`
	ImageKey   string        `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category with a slug derived from its name
func NewCategory(companyID uuid.UUID, sequenceID int64, name LocalizedText) (*Category, error) {
	if err := name.Validate("name"); err != nil {
		return nil, err
	}

	return &Category{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		SequenceID:           sequenceID,
		Name:                 name,
		Slug:                 deriveSlug(name, sequenceID),
	}, nil
}

// Rename updates the name and re-derives the slug
func (c *Category) Rename(name LocalizedText) error {
	if err := name.Validate("name"); err != nil {
		return err
	}
	c.Name = name
	c.Slug = deriveSlug(name, c.SequenceID)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetImage records the stored image location, replacing any previous one
func (c *Category) SetImage(url, key string) {
	c.ImageURL = url
	c.ImageKey = key
	c.Touch()
	c.IncrementVersion()
}

// deriveSlug builds a unique slug by suffixing the sequence id. Slugified
// names alone collide across languages ("فيتامينات" and "Vitamins" both
// belong to tenants that may reuse names), the integer keeps them apart.
func deriveSlug(name LocalizedText, sequenceID int64) string {
	base := shared.Slugify(name.SlugSource())
	if base == "" {
		return fmt.Sprintf("item-%d", sequenceID)
	}
	return fmt.Sprintf("%s-%d", base, sequenceID)
}
