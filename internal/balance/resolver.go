package balance

import (
	"context"
	"fmt"

	"zaim/internal/core"
)

// adjustmentTarget is the category/genre pair an adjustment record is tagged
// with. genreID is zero when the income path found no genre, which the
// income endpoint tolerates.
type adjustmentTarget struct {
	categoryID int64
	genreID    int64
}

// resolveIncomeTarget picks the category for a positive adjustment: first a
// category whose name carries an adjustment marker, then the first income
// category as a fallback.
func (m *Manager) resolveIncomeTarget(ctx context.Context) (adjustmentTarget, error) {
	categories, err := m.listCategories(ctx)
	if err != nil {
		return adjustmentTarget{}, err
	}

	var chosen *core.Category
	for i, c := range categories {
		if core.ContainsAnyFold(c.Name, m.opts.AdjustmentMarkers) {
			chosen = &categories[i]
			break
		}
	}
	if chosen == nil {
		for i, c := range categories {
			if c.Mode == core.ModeIncome {
				chosen = &categories[i]
				break
			}
		}
	}
	if chosen == nil {
		return adjustmentTarget{}, fmt.Errorf("%w for income", core.ErrNoSuitableCategory)
	}

	target := adjustmentTarget{categoryID: chosen.ID}
	if genreID, err := m.firstGenreFor(ctx, chosen.ID); err != nil {
		return adjustmentTarget{}, err
	} else {
		target.genreID = genreID
	}
	return target, nil
}

// resolveExpenseTarget picks the category for a negative adjustment: plainly
// the first payment category, with no marker search. A genre is mandatory
// here because the payment endpoint requires one.
func (m *Manager) resolveExpenseTarget(ctx context.Context) (adjustmentTarget, error) {
	categories, err := m.listCategories(ctx)
	if err != nil {
		return adjustmentTarget{}, err
	}

	var chosen *core.Category
	for i, c := range categories {
		if c.Mode == core.ModePayment {
			chosen = &categories[i]
			break
		}
	}
	if chosen == nil {
		return adjustmentTarget{}, fmt.Errorf("%w for expense", core.ErrNoSuitableCategory)
	}

	genreID, err := m.firstGenreFor(ctx, chosen.ID)
	if err != nil {
		return adjustmentTarget{}, err
	}
	if genreID == 0 {
		return adjustmentTarget{}, fmt.Errorf("%w for category %q", core.ErrNoSuitableGenre, chosen.Name)
	}
	return adjustmentTarget{categoryID: chosen.ID, genreID: genreID}, nil
}

// firstGenreFor returns the first genre belonging to the category, or zero
// when none exists.
func (m *Manager) firstGenreFor(ctx context.Context, categoryID int64) (int64, error) {
	genres, err := m.listGenres(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range genres {
		if g.CategoryID == categoryID {
			return g.ID, nil
		}
	}
	return 0, nil
}
