package catalog

import (
	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Brand is a product manufacturer or trademark within a tenant's catalog.
// Structurally it mirrors Category: sequence id, bilingual name, one image.
type Brand struct {
	shared.CompanyAggregateRoot
	SequenceID int64         `gorm:"not null;uniqueIndex:,composite:company_seq,priority:2"`
	Name       LocalizedText `gorm:"embedded;embeddedPrefix:name_"`
	Slug       string        `gorm:"type:varchar(200);not null;index"`
	ImageURL   string        `gorm:"type:varchar(500)"`
	ImageKey   string        `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a brand with a slug derived from its name
func NewBrand(companyID uuid.UUID, sequenceID int64, name LocalizedText) (*Brand, error) {
	if err := name.Validate("name"); err != nil {
		return nil, err
	}

	return &Brand{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		SequenceID:           sequenceID,
		Name:                 name,
		Slug:                 deriveSlug(name, sequenceID),
	}, nil
}

// Rename updates the name and re-derives the slug
func (b *Brand) Rename(name LocalizedText) error {
	if err := name.Validate("name"); err != nil {
		return err
	}
	b.Name = name
	b.Slug = deriveSlug(name, b.SequenceID)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// SetImage records the stored image location, replacing any previous one
func (b *Brand) SetImage(url, key string) {
	b.ImageURL = url
	b.ImageKey = key
	b.Touch()
	b.IncrementVersion()
}
