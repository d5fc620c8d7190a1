package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
)

func TestProduct_EmptyInput(t *testing.T) {
	p := Product(map[string]any{})

	assert.Equal(t, "Không có tên", p.Name)
	assert.Equal(t, "Không rõ", p.SKU)
	assert.Equal(t, "active", p.Status)
	assert.True(t, p.IsAvailable)
	assert.False(t, p.IsOnSale)
	assert.False(t, p.IsFeatured)
	assert.False(t, p.IsNew)
	assert.Zero(t, p.Price)
	assert.Zero(t, p.OriginalPrice)
	assert.Zero(t, p.DiscountPercentage)
	assert.Zero(t, p.ViewCount)
	assert.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
	assert.Equal(t, domain.PlaceholderImageURL, p.Image)
}

func TestProduct_NilInput(t *testing.T) {
	assert.NotPanics(t, func() {
		p := Product(nil)
		assert.Equal(t, "Không có tên", p.Name)
	})
}

func TestProduct_CanonicalKeys(t *testing.T) {
	raw := map[string]any{
		"id":               "p-1",
		"name":             "Seiko 5 Sports",
		"slug":             "seiko-5-sports",
		"sku":              "SKU-001",
		"shortDescription": "automatic",
		"price":            float64(4500000),
		"originalPrice":    float64(5000000),
		"status":           "active",
		"isAvailable":      false,
		"isOnSale":         true,
		"viewCount":        float64(12),
		"category":         map[string]any{"id": "c-1", "name": "Đồng hồ nam"},
		"images":           []any{"http://x/a.png"},
	}

	p := Product(raw)

	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Seiko 5 Sports", p.Name)
	assert.Equal(t, "SKU-001", p.SKU)
	assert.Equal(t, "automatic", p.ShortDescription)
	assert.Equal(t, float64(4500000), p.Price)
	assert.Equal(t, float64(5000000), p.OriginalPrice)
	assert.False(t, p.IsAvailable, "explicit false must not be defaulted to true")
	assert.True(t, p.IsOnSale)
	assert.Equal(t, int64(12), p.ViewCount)
	assert.Equal(t, domain.Ref{ID: "c-1", Name: "Đồng hồ nam"}, p.Category)
	assert.Equal(t, []string{"http://x/a.png"}, p.Images)
	assert.Equal(t, "http://x/a.png", p.Image)
}

func TestProduct_LegacyAliases(t *testing.T) {
	raw := map[string]any{
		"id":                "p-2",
		"short_description": "legacy desc",
		"original_price":    "990000",
		"is_available":      false,
		"is_on_sale":        true,
		"view_count":        float64(7),
		"category_id":       "c-9",
		"category_name":     "Đồng hồ nữ",
		"brand_id":          "b-3",
		"brand_name":        "Casio",
	}

	p := Product(raw)

	assert.Equal(t, "legacy desc", p.ShortDescription)
	assert.Equal(t, float64(990000), p.OriginalPrice)
	assert.False(t, p.IsAvailable)
	assert.True(t, p.IsOnSale)
	assert.Equal(t, int64(7), p.ViewCount)
	assert.Equal(t, domain.Ref{ID: "c-9", Name: "Đồng hồ nữ"}, p.Category)
	assert.Equal(t, domain.Ref{ID: "b-3", Name: "Casio"}, p.Brand)
}

func TestProduct_CanonicalWinsOverLegacy(t *testing.T) {
	raw := map[string]any{
		"shortDescription":  "new",
		"short_description": "old",
		"isAvailable":       true,
		"is_available":      false,
	}

	p := Product(raw)

	assert.Equal(t, "new", p.ShortDescription)
	assert.True(t, p.IsAvailable)
}

// Normalizing an already-canonical record must be a no-op.
func TestProduct_Idempotent(t *testing.T) {
	raw := map[string]any{
		"id":             "p-3",
		"name":           "Orient Bambino",
		"price":          "2.350.000 VND",
		"original_price": float64(2500000),
		"is_new":         true,
		"images":         []any{map[string]any{"imageUrl": "http://x/b.png"}, "http://x/c.png"},
		"category_id":    "c-1",
		"category_name":  "Đồng hồ nam",
	}

	once := Product(raw)

	// Round the canonical product back through a raw map the way a
	// cache layer would hand it over.
	again := Product(map[string]any{
		"id":                 once.ID,
		"name":               once.Name,
		"sku":                once.SKU,
		"price":              once.Price,
		"originalPrice":      once.OriginalPrice,
		"discountPercentage": once.DiscountPercentage,
		"status":             once.Status,
		"isAvailable":        once.IsAvailable,
		"isOnSale":           once.IsOnSale,
		"isFeatured":         once.IsFeatured,
		"isNew":              once.IsNew,
		"category":           map[string]any{"id": once.Category.ID, "name": once.Category.Name},
		"brand":              map[string]any{"id": once.Brand.ID, "name": once.Brand.Name},
		"viewCount":          float64(once.ViewCount),
		"reviewCount":        float64(once.ReviewCount),
		"averageRating":      once.AverageRating,
		"displayOrder":       float64(once.DisplayOrder),
		"images":             toAny(once.Images),
		"createdAt":          once.CreatedAt,
		"updatedAt":          once.UpdatedAt,
	})

	assert.Equal(t, once, again)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func TestProducts(t *testing.T) {
	t.Run("nil input yields empty slice", func(t *testing.T) {
		out := Products(nil)
		require.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("non-object entries are tolerated", func(t *testing.T) {
		out := Products([]any{map[string]any{"id": "p-1"}, "garbage", nil})
		require.Len(t, out, 3)
		assert.Equal(t, "p-1", out[0].ID)
		assert.Equal(t, "Không có tên", out[1].Name)
		assert.Equal(t, "Không có tên", out[2].Name)
	})
}

type priceString string

func (p priceString) String() string { return string(p) }

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"plain number", float64(1500000), 1500000},
		{"integer", 42, 42},
		{"nil", nil, 0},
		{"clean string", "250000", 250000},
		{"currency suffix with thousand dots", "1.500.000 VND", 1.5},
		{"single decimal point", "99.5", 99.5},
		{"no digits", "miễn phí", 0},
		{"empty string", "", 0},
		{"stringer", priceString("250000"), 250000},
		{"decimal wrapper", map[string]any{"$numberDecimal": "1250000"}, 1250000},
		{"value wrapper", map[string]any{"value": float64(780000)}, 780000},
		{"nested wrapper", map[string]any{"amount": map[string]any{"value": "500000"}}, 500000},
		{"opaque map falls back to first field", map[string]any{"zz": "x", "aa": float64(3)}, 3},
		{"unparseable map", map[string]any{"note": "n/a"}, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.in))
		})
	}
}

func TestImages(t *testing.T) {
	got := Images([]any{
		"http://x/a.png",
		map[string]any{"imageUrl": "http://x/b.png"},
		map[string]any{"imageUrl": map[string]any{"url": "http://x/c.png"}},
		map[string]any{"url": "http://x/d.png"},
		map[string]any{"thumbnail": "nope"},
		float64(7),
	})

	assert.Equal(t, []string{
		"http://x/a.png",
		"http://x/b.png",
		"http://x/c.png",
		"http://x/d.png",
		"",
		"",
	}, got)
}

func TestImages_NotAList(t *testing.T) {
	assert.Empty(t, Images("http://x/a.png"))
	assert.Empty(t, Images(nil))
}

func TestProduct_PlaceholderWhenFirstImageUnresolved(t *testing.T) {
	p := Product(map[string]any{
		"images": []any{map[string]any{"thumbnail": "nope"}},
	})
	assert.Equal(t, domain.PlaceholderImageURL, p.Image)
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "2024-03-15T10:30:00Z", Timestamp("2024-03-15T10:30:00Z"))

	got := Timestamp([]any{float64(2024), float64(3), float64(15), float64(10), float64(30), float64(0)})
	assert.Equal(t, "2024-03-15T10:30:00", got)

	got = Timestamp([]any{float64(2024), float64(3), float64(15), float64(10), float64(30), float64(5), float64(123)})
	assert.Equal(t, "2024-03-15T10:30:05", got)

	assert.Empty(t, Timestamp([]any{float64(2024), float64(3)}))
	assert.Empty(t, Timestamp(nil))
	assert.Empty(t, Timestamp(float64(1710498600)))
}
