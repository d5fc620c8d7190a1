// Package normalize collapses raw backend product records into the
// canonical domain shape. The backend has shipped two field-naming
// schemes over time (camelCase and an older snake_case variant), and
// some numeric fields arrive as numbers, formatted strings, or wrapper
// objects. Everything here is total: any input, including nil, yields
// a fully populated product and no call ever fails.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
)

const (
	defaultName = "Không có tên"
	defaultSKU  = "Không rõ"
)

// Product maps a raw backend record to a canonical product. Canonical
// keys win over legacy aliases, so normalizing an already-canonical
// record is a no-op.
func Product(raw map[string]any) domain.Product {
	p := domain.Product{
		ID:                 asString(pick(raw, "id", "_id")),
		Name:               stringOr(pick(raw, "name", "product_name"), defaultName),
		Slug:               asString(pick(raw, "slug")),
		SKU:                stringOr(pick(raw, "sku", "product_sku"), defaultSKU),
		Description:        asString(pick(raw, "description")),
		ShortDescription:   asString(pick(raw, "shortDescription", "short_description")),
		Price:              Amount(pick(raw, "price")),
		OriginalPrice:      Amount(pick(raw, "originalPrice", "original_price")),
		DiscountPercentage: Amount(pick(raw, "discountPercentage", "discount_percentage")),
		Status:             stringOr(pick(raw, "status"), "active"),
		IsOnSale:           asBool(pick(raw, "isOnSale", "is_on_sale"), false),
		IsFeatured:         asBool(pick(raw, "isFeatured", "is_featured"), false),
		IsNew:              asBool(pick(raw, "isNew", "is_new"), false),
		ViewCount:          asInt64(pick(raw, "viewCount", "view_count")),
		ReviewCount:        asInt64(pick(raw, "reviewCount", "review_count")),
		AverageRating:      Amount(pick(raw, "averageRating", "average_rating")),
		DisplayOrder:       asInt64(pick(raw, "displayOrder", "display_order")),
		CreatedAt:          Timestamp(pick(raw, "createdAt", "created_at")),
		UpdatedAt:          Timestamp(pick(raw, "updatedAt", "updated_at")),
	}

	// Availability defaults to true only when the field is absent; an
	// explicit false from the backend is preserved.
	if v, ok := lookup(raw, "isAvailable", "is_available"); ok {
		p.IsAvailable = asBool(v, true)
	} else {
		p.IsAvailable = true
	}

	p.Category = ref(raw, "category", "categoryId", "category_id", "categoryName", "category_name")
	p.Brand = ref(raw, "brand", "brandId", "brand_id", "brandName", "brand_name")

	p.Images = Images(pick(raw, "images", "image_urls"))
	p.Image = firstImage(p.Images)

	if d, ok := lookup(raw, "detail"); ok && d != nil {
		if b, err := json.Marshal(d); err == nil {
			p.Detail = b
		}
	}

	return p
}

// Products maps a raw product list, tolerating nil and non-object
// entries. Nil input yields an empty slice, never nil trouble upstream.
func Products(raws []any) []domain.Product {
	out := make([]domain.Product, 0, len(raws))
	for _, r := range raws {
		m, _ := r.(map[string]any)
		out = append(out, Product(m))
	}
	return out
}

// Amount coerces a price-like value to a float. Numbers pass through,
// strings are parsed loosely (currency symbols and thousand separators
// stripped), and wrapper objects are probed for a nested decimal.
// Anything unparseable is 0.
func Amount(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return parseLoose(t.String())
	case string:
		return parseLoose(t)
	case fmt.Stringer:
		return parseLoose(t.String())
	case map[string]any:
		return amountFromMap(t)
	default:
		return 0
	}
}

// wrapperKeys are probed first when a price arrives as an object, in
// order of how likely they are to carry the actual decimal.
var wrapperKeys = []string{"$numberDecimal", "value", "amount", "price"}

func amountFromMap(m map[string]any) float64 {
	for _, k := range wrapperKeys {
		if v, ok := m[k]; ok {
			if f := Amount(v); f != 0 {
				return f
			}
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f := Amount(m[k]); f != 0 {
			return f
		}
	}
	return 0
}

// parseLoose strips every character that is not a digit or a decimal
// point, then parses the longest valid leading float. A second dot
// terminates the parse, so "1.500.000 VND" becomes 1.5 rather than an
// error. That matches how the backend's legacy consumers read these
// strings and is covered explicitly by tests.
func parseLoose(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	if i := strings.Index(cleaned, "."); i >= 0 {
		if j := strings.Index(cleaned[i+1:], "."); j >= 0 {
			cleaned = cleaned[:i+1+j]
		}
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// Images resolves a raw image list to URL strings. String entries pass
// through; object entries are probed for "imageUrl" (whose value may
// itself be an object holding "url") and then "url". An entry that
// resolves through neither path stays as an empty string so positions
// are preserved; consumers must tolerate that.
func Images(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		out = append(out, resolveImage(entry))
	}
	return out
}

func resolveImage(entry any) string {
	switch t := entry.(type) {
	case string:
		return t
	case map[string]any:
		if v, ok := t["imageUrl"]; ok {
			switch u := v.(type) {
			case string:
				return u
			case map[string]any:
				if s, ok := u["url"].(string); ok {
					return s
				}
			}
		}
		if s, ok := t["url"].(string); ok {
			return s
		}
	}
	return ""
}

func firstImage(images []string) string {
	if len(images) == 0 || images[0] == "" {
		return domain.PlaceholderImageURL
	}
	return images[0]
}

// Timestamp collapses a backend timestamp to a string. The backend
// serializes dates either as ISO-like strings or as an ordered array
// [year, month, day, hour, minute, second, (nanos)] with a 1-based
// month. Anything else is an empty string.
func Timestamp(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) < 6 {
			return ""
		}
		parts := make([]int, 7)
		for i := 0; i < len(t) && i < 7; i++ {
			parts[i] = int(Amount(t[i]))
		}
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
			parts[0], parts[1], parts[2], parts[3], parts[4], parts[5])
	}
	return ""
}

func ref(raw map[string]any, objKey string, idKeys ...string) domain.Ref {
	if obj, ok := raw[objKey].(map[string]any); ok {
		return domain.Ref{
			ID:   asString(pick(obj, "id", "_id")),
			Name: asString(pick(obj, "name")),
		}
	}
	// Flat fallback: separate identifier and name fields. idKeys holds
	// the two id aliases followed by the two name aliases.
	return domain.Ref{
		ID:   asString(pick(raw, idKeys[0], idKeys[1])),
		Name: asString(pick(raw, idKeys[2], idKeys[3])),
	}
}

// pick returns the first present key's value, preferring earlier keys.
func pick(raw map[string]any, keys ...string) any {
	v, _ := lookup(raw, keys...)
	return v
}

func lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

func stringOr(v any, def string) string {
	if s := asString(v); s != "" {
		return s
	}
	return def
}

func asBool(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return def
}

func asInt64(v any) int64 {
	return int64(Amount(v))
}
