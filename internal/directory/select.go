package directory

import "github.com/outreach/internal/model"

// Select returns the contacts whose ordinal lies in [from, to], in load order.
// An inverted range selects nothing.
func Select(d *Directory, from, to int) []model.Contact {
	var selected []model.Contact
	if from > to {
		return selected
	}
	for _, c := range d.contacts {
		if c.Ordinal >= from && c.Ordinal <= to {
			selected = append(selected, c)
		}
	}
	return selected
}
