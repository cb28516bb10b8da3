package models

import "time"

// Meal types accepted by the API.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnack     = "snack"
	MealDinner    = "dinner"
)

var mealTypes = map[string]struct{}{
	MealBreakfast: {},
	MealLunch:     {},
	MealSnack:     {},
	MealDinner:    {},
}

// ValidMealType reports whether t is one of the accepted meal types.
func ValidMealType(t string) bool {
	_, ok := mealTypes[t]
	return ok
}

// Canonical consumed-amount values offered by the entry form. The column is
// free text, so stored values may fall outside this set; reports render those
// through ConsumedAmountLabel instead of passing them along silently.
const (
	ConsumedNone = "none"
	ConsumedSome = "some"
	ConsumedHalf = "half"
	ConsumedMost = "most"
	ConsumedFull = "full"
)

var consumedAmountLabels = map[string]string{
	ConsumedNone: "nothing eaten",
	ConsumedSome: "a few bites",
	ConsumedHalf: "about half",
	ConsumedMost: "most of it",
	ConsumedFull: "everything",
}

// KnownConsumedAmount reports whether v belongs to the canonical set.
func KnownConsumedAmount(v string) bool {
	_, ok := consumedAmountLabels[v]
	return ok
}

// ConsumedAmountLabel maps a stored consumed_amount value to its display
// label, falling back to a generic label for unrecognized values.
func ConsumedAmountLabel(v string) string {
	if label, ok := consumedAmountLabels[v]; ok {
		return label
	}
	return "other"
}

// Meal is a single serving given to one child. There is no uniqueness
// constraint: a child may have any number of records of the same type per day,
// and records are immutable once written.
type Meal struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ChildID        uint      `gorm:"index;not null" json:"child_id"`
	MealType       string    `gorm:"size:16;not null" json:"meal_type"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	ConsumedAmount string    `gorm:"size:32;not null" json:"consumed_amount"`
	MealDate       time.Time `gorm:"index;not null" json:"meal_date"`
	Notes          *string   `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
