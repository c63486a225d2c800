// internal/services/sku.go
package services

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/blake2b"
)

const skuSegmentLength = 3

// GenerateSKU derives a SKU such as "ELE-IPH-3FA2C1" from the category and
// product name. The same inputs always give the same SKU.
func GenerateSKU(categoryID *uuid.UUID, categoryName, name string) string {
	var id string
	if categoryID != nil {
		id = categoryID.String()
	}

	sum := blake2b.Sum256([]byte(id + "\x00" + categoryName + "\x00" + strings.TrimSpace(name)))
	suffix := strings.ToUpper(hex.EncodeToString(sum[:3]))

	return fmt.Sprintf("%s-%s-%s", skuSegment(categoryName, "GEN"), skuSegment(name, "ITM"), suffix)
}

// skuSegment transliterates s to ASCII and keeps its first letters.
func skuSegment(s, fallback string) string {
	compact := strings.ReplaceAll(slug.Make(s), "-", "")
	if compact == "" {
		return fallback
	}
	if len(compact) > skuSegmentLength {
		compact = compact[:skuSegmentLength]
	}
	return strings.ToUpper(compact)
}

// GenerateSlug returns the URL slug for a new product: the slugified name
// plus a millisecond timestamp, or "draft-<timestamp>" when the name is empty.
func GenerateSlug(name string, now time.Time) string {
	ts := now.UnixMilli()
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("draft-%d", ts)
	}

	base := slug.Make(name)
	if base == "" {
		base = "product"
	}
	return fmt.Sprintf("%s-%d", base, ts)
}
