package records

type TipCategory string

const (
	CategoryAll        TipCategory = "Todos"
	CategoryNutrition  TipCategory = "Nutrición"
	CategoryExercise   TipCategory = "Ejercicio"
	CategoryRest       TipCategory = "Descanso"
	CategoryPrevention TipCategory = "Prevención"
	CategoryMental     TipCategory = "Bienestar Mental"

	CategoryUnknown TipCategory = "unknown"
)

// TipCategories lists the filter choices in display order, "Todos" first.
var TipCategories = []TipCategory{
	CategoryAll,
	CategoryNutrition,
	CategoryExercise,
	CategoryRest,
	CategoryPrevention,
	CategoryMental,
}

func (c TipCategory) Kind() TipCategory {
	switch c {
	case CategoryAll, CategoryNutrition, CategoryExercise, CategoryRest, CategoryPrevention, CategoryMental:
		return c
	default:
		return CategoryUnknown
	}
}

// Color falls back to the "Todos" colour for unknown categories.
func (c TipCategory) Color() string {
	switch c.Kind() {
	case CategoryNutrition:
		return "#4CAF50"
	case CategoryExercise:
		return "#FF9800"
	case CategoryRest:
		return "#9C27B0"
	case CategoryPrevention:
		return "#2196F3"
	case CategoryMental:
		return "#E91E63"
	case CategoryAll, CategoryUnknown:
		return "#45B7D1"
	}
	return "#45B7D1"
}

func (c TipCategory) Icon() string {
	switch c.Kind() {
	case CategoryNutrition:
		return "nutrition"
	case CategoryExercise:
		return "fitness"
	case CategoryRest:
		return "bed"
	case CategoryPrevention:
		return "shield-checkmark"
	case CategoryMental:
		return "happy"
	case CategoryAll, CategoryUnknown:
		return "bulb"
	}
	return "bulb"
}

type HealthTip struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Category  TipCategory `json:"category"`
	ImageURL  string      `json:"image_url,omitempty"`
	IsActive  bool        `json:"is_active"`
	CreatedAt string      `json:"created_at,omitempty"`
}

func (t HealthTip) Key() string { return t.ID }

// FilterTips keeps the tips in the given category, or all of them for "Todos".
// Order is preserved.
func FilterTips(tips []HealthTip, category TipCategory) []HealthTip {
	out := make([]HealthTip, 0, len(tips))
	for _, tip := range tips {
		if category == CategoryAll || tip.Category == category {
			out = append(out, tip)
		}
	}
	return out
}
