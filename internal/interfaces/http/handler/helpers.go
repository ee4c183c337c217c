package handler

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
)

// isMultipart reports whether the request carries a multipart form
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readUpload loads one multipart file into memory
func readUpload(header *multipart.FileHeader) (*catalogapp.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &catalogapp.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formFile returns the named upload, or nil when the field is absent
func formFile(c *gin.Context, name string) (*catalogapp.ImageUpload, error) {
	header, err := c.FormFile(name)
	if err != nil {
		// absent file fields are not an error for partial updates
		return nil, nil
	}
	return readUpload(header)
}

// formFiles returns all uploads under the named field
func formFiles(c *gin.Context, name string) ([]catalogapp.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[name]
	if len(headers) == 0 {
		return nil, nil
	}

	uploads := make([]catalogapp.ImageUpload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *upload)
	}
	return uploads, nil
}

// formString returns the trimmed form value and whether it was present
func formString(c *gin.Context, name string) (string, bool) {
	value, ok := c.GetPostForm(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// formDecimal parses an optional decimal form value
func formDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	value, ok := formString(c, name)
	if !ok || value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// formInt64 parses an optional integer form value
func formInt64(c *gin.Context, name string) (*int64, error) {
	value, ok := formString(c, name)
	if !ok || value == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// formBool parses an optional boolean form value
func formBool(c *gin.Context, name string) (*bool, error) {
	value, ok := formString(c, name)
	if !ok || value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// formLocalized reads an optional bilingual pair from <name>Ar/<name>En
func formLocalized(c *gin.Context, name string) *catalogapp.LocalizedInput {
	ar, arOK := formString(c, name+"Ar")
	en, enOK := formString(c, name+"En")
	if !arOK && !enOK {
		return nil
	}
	return &catalogapp.LocalizedInput{AR: ar, EN: en}
}

// formTier reads an optional selling tier from <name>Price/<name>Rate
func formTier(c *gin.Context, name string) (*catalogapp.TierPriceInput, error) {
	price, err := formDecimal(c, name+"Price")
	if err != nil {
		return nil, err
	}
	rate, err := formDecimal(c, name+"Rate")
	if err != nil {
		return nil, err
	}
	if price == nil && rate == nil {
		return nil, nil
	}
	return &catalogapp.TierPriceInput{Price: price, Rate: rate}, nil
}
