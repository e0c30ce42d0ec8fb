package query

import (
	"github.com/roach88/promptguide/internal/ir"
)

// Fixed text of the synthesized favorites category.
const (
	FavoritesTitle       = "Your Favorites"
	FavoritesIcon        = "❤️"
	FavoritesDescription = "A personalized collection of your saved prompt engineering techniques."
	FavoritesInsight     = "Reviewing your favorite techniques regularly helps reinforce your memory and mastery of them."
)

// favoritesChart is a flat placeholder profile; the favorites view has no
// meaningful aggregate score.
var favoritesChart = ir.Scores{5, 5, 5, 5, 5}

// Axes are the chart axis labels in Scores order.
var Axes = ir.Axes

// FindCategory returns the category with the given id.
// The favorites id is not a real category and is never found here.
func FindCategory(cat *ir.Catalog, id string) (*ir.Category, bool) {
	for i := range cat.Categories {
		if cat.Categories[i].ID == id {
			return &cat.Categories[i], true
		}
	}
	return nil, false
}

// FindTechnique returns the technique with the given id from any category.
func FindTechnique(cat *ir.Catalog, id ir.TechniqueID) (*ir.Technique, bool) {
	for i := range cat.Categories {
		techs := cat.Categories[i].Techniques
		for j := range techs {
			if techs[j].ID == id {
				return &techs[j], true
			}
		}
	}
	return nil, false
}

// BuildFavoritesView synthesizes the favorites category: every catalog
// technique for which isFavorite is true, in catalog order.
//
// ChartData is the flat placeholder when the view is non-empty and all
// zeros otherwise.
func BuildFavoritesView(cat *ir.Catalog, isFavorite func(ir.TechniqueID) bool) ir.Category {
	view := ir.Category{
		ID:          ir.FavoritesCategoryID,
		Title:       FavoritesTitle,
		Icon:        FavoritesIcon,
		Description: FavoritesDescription,
		Insight:     FavoritesInsight,
	}

	for _, c := range cat.Categories {
		for _, t := range c.Techniques {
			if isFavorite(t.ID) {
				view.Techniques = append(view.Techniques, t)
			}
		}
	}

	if len(view.Techniques) > 0 {
		view.ChartData = favoritesChart
	}
	return view
}

// CountTechniques returns the number of techniques across all categories.
func CountTechniques(cat *ir.Catalog) int {
	n := 0
	for _, c := range cat.Categories {
		n += len(c.Techniques)
	}
	return n
}

// Flatten returns every technique in catalog order.
func Flatten(cat *ir.Catalog) []ir.Technique {
	out := make([]ir.Technique, 0, CountTechniques(cat))
	for _, c := range cat.Categories {
		out = append(out, c.Techniques...)
	}
	return out
}
