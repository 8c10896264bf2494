package domain

import "encoding/json"

// Subject is the person food is being recommended for. The record comes
// from an upstream intake system, so every dietary field may be missing,
// a bare string, or a {list, details} object.
type Subject struct {
	Name       string      `json:"subject_name"`
	Dietary    DietaryInfo `json:"dietary_history"`
	Medical    MedicalInfo `json:"medical_history"`
	EnergyGoal float64     `json:"energy_goal_kcal,omitempty"`
	MacroGoal  MacroGrams  `json:"macro_target_grams,omitempty"`
}

// DietaryInfo holds the raw dietary axes of a Subject.
type DietaryInfo struct {
	FoodAllergies    FlexField `json:"food_allergies"`
	FoodIntolerances FlexField `json:"food_intolerances"`
	DislikedFoods    FlexField `json:"disliked_foods"`
	FavoriteFoods    FlexField `json:"favorite_foods"`
	DietTypes        FlexField `json:"diet_types"`
}

// MedicalInfo holds the subset of medical history the pipeline reads.
type MedicalInfo struct {
	Medications FlexField `json:"medications"`
}

// FlexField is a field that upstream sends either as a plain string or as
// a structured {list, details} object.
type FlexField struct {
	List    []string
	Details string
}

// UnmarshalJSON accepts both the string and the object form.
func (f *FlexField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.List = nil
		f.Details = s
		return nil
	}
	var obj struct {
		List    []string `json:"list"`
		Details string   `json:"details"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Malformed field defaults to empty, never fails the request.
		f.List = nil
		f.Details = ""
		return nil
	}
	f.List = obj.List
	f.Details = obj.Details
	return nil
}

// MarshalJSON always emits the object form.
func (f FlexField) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		List    []string `json:"list,omitempty"`
		Details string   `json:"details,omitempty"`
	}{List: f.List, Details: f.Details})
}

// MacroGrams is a macronutrient distribution in grams.
type MacroGrams struct {
	Protein      float64 `json:"protein"`
	Carbohydrate float64 `json:"carbohydrate"`
	Fat          float64 `json:"fat"`
}

// ConstraintSet is the normalized dietary profile derived from a Subject.
// All list entries are non-empty, trimmed and lower-case. Derived once per
// request and never mutated afterwards.
type ConstraintSet struct {
	Allergies    []string   `json:"allergies"`
	Intolerances []string   `json:"intolerances"`
	Disliked     []string   `json:"disliked"`
	Favorites    []string   `json:"favorites"`
	DietTypes    []string   `json:"diet_types"`
	Medications  string     `json:"medications,omitempty"`
	EnergyGoal   float64    `json:"energy_goal_kcal,omitempty"`
	MacroTarget  MacroGrams `json:"macro_target"`
}

// Excluded returns every hard-exclusion term: allergies, intolerances and
// disliked foods in that order.
func (c *ConstraintSet) Excluded() []string {
	out := make([]string, 0, len(c.Allergies)+len(c.Intolerances)+len(c.Disliked))
	out = append(out, c.Allergies...)
	out = append(out, c.Intolerances...)
	out = append(out, c.Disliked...)
	return out
}
