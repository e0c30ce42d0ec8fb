package ir

// TechniqueID identifies a technique across the whole catalog.
// It is the join key used by favorites and the quiz.
type TechniqueID string

// FavoritesCategoryID is the reserved id of the synthesized favorites view.
// No real category may use it.
const FavoritesCategoryID = "favorites"

// Axes are the fixed score axes, in Scores order.
var Axes = [5]string{"Complexity", "Reliability", "Speed", "Cost Efficiency", "Creativity"}

// Scores is a category's score profile on the five Axes, each in [0,10].
type Scores [5]float64

// Technique is one prompt-engineering method record.
type Technique struct {
	ID            TechniqueID `json:"id" validate:"required,slug"`
	Title         string      `json:"title" validate:"required"`
	Definition    string      `json:"definition" validate:"required"`
	BestUse       string      `json:"best_use" validate:"required"`
	Mechanism     string      `json:"mechanism" validate:"required"`
	ExampleInput  string      `json:"example_input" validate:"required"`
	ExampleOutput string      `json:"example_output" validate:"required"`
	Complexity    string      `json:"complexity" validate:"required"`

	// Owner back-references, filled in by the compiler.
	CategoryID   string `json:"category_id"`
	CategoryIcon string `json:"category_icon"`
}

// Category is a named grouping of techniques with a score profile.
type Category struct {
	ID          string      `json:"id" validate:"required,slug"`
	Title       string      `json:"title" validate:"required"`
	Icon        string      `json:"icon" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Insight     string      `json:"insight" validate:"required"`
	ChartData   Scores      `json:"chart_data" validate:"dive,gte=0,lte=10"`
	Techniques  []Technique `json:"techniques" validate:"dive"`
}

// Catalog is the full ordered set of categories.
type Catalog struct {
	Categories []Category `json:"categories" validate:"required,min=1,dive"`
}

// IsVirtual reports whether the category is synthesized rather than
// part of the catalog.
func (c *Category) IsVirtual() bool {
	return c.ID == FavoritesCategoryID
}
