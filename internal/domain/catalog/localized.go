package catalog

import (
	"strings"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// LocalizedText is a bilingual value: Arabic is the primary storefront
// language and is always required, English is optional.
type LocalizedText struct {
	AR string `gorm:"type:varchar(500)" json:"ar"`
	EN string `gorm:"type:varchar(500)" json:"en,omitempty"`
}

// Validate checks that the required Arabic text is present
func (t LocalizedText) Validate(field string) error {
	if strings.TrimSpace(t.AR) == "" {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field), "Arabic "+field+" is required")
	}
	return nil
}

// SlugSource returns the text slugs are derived from: English when
// available (ASCII slugs read better in URLs), Arabic otherwise.
func (t LocalizedText) SlugSource() string {
	if strings.TrimSpace(t.EN) != "" {
		return t.EN
	}
	return t.AR
}

// IsZero reports whether both languages are empty
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.AR) == "" && strings.TrimSpace(t.EN) == ""
}
