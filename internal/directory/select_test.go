package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outreach/internal/model"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	// Ordinals repeat and are stored out of order.
	d := New([]model.Contact{
		{Ordinal: 5, Email: "e@x.com"},
		{Ordinal: 1, Email: "a@x.com"},
		{Ordinal: 3, Email: "c@x.com"},
		{Ordinal: 3, Email: "c2@x.com"},
		{Ordinal: 10, Email: "j@x.com"},
		{Ordinal: -2, Email: "neg@x.com"},
	})

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"inclusive bounds", 3, 5, []string{"e@x.com", "c@x.com", "c2@x.com"}},
		{"single ordinal", 10, 10, []string{"j@x.com"}},
		{"whole directory", -100, 100, []string{"e@x.com", "a@x.com", "c@x.com", "c2@x.com", "j@x.com", "neg@x.com"}},
		{"outside", 100, 200, nil},
		{"inverted", 5, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, c := range Select(d, tt.from, tt.to) {
				assert.GreaterOrEqual(t, c.Ordinal, tt.from)
				assert.LessOrEqual(t, c.Ordinal, tt.to)
				got = append(got, c.Email)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_MatchesFilterForAllRanges(t *testing.T) {
	t.Parallel()

	var contacts []model.Contact
	for i := 1; i <= 10; i++ {
		contacts = append(contacts, model.Contact{Ordinal: i})
	}
	d := New(contacts)

	for a := -1; a <= 12; a++ {
		for b := -1; b <= 12; b++ {
			want := 0
			if a <= b {
				for i := max(a, 1); i <= min(b, 10); i++ {
					want++
				}
			}
			assert.Len(t, Select(d, a, b), want, "range [%d,%d]", a, b)
		}
	}
}
