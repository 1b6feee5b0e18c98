package analysis

import "strings"

// Category is a fixed cost category for maintenance work.
type Category string

const (
	CategoryFluids         Category = "Fluids & Filters"
	CategoryBraking        Category = "Braking System"
	CategoryPropulsion     Category = "Propulsion"
	CategoryTransmission   Category = "Transmission"
	CategoryClimate        Category = "Climate Control"
	CategoryDoors          Category = "Doors & Safety"
	CategoryElectronics    Category = "Electronics"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryOther          Category = "Other"
)

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules are evaluated in order; the first match wins. Task types
// often match several rules ("Traction Motor Service" vs "Track").
var categoryRules = []categoryRule{
	{CategoryFluids, []string{"Oil", "Fluid"}},
	{CategoryBraking, []string{"Brake"}},
	{CategoryPropulsion, []string{"Engine", "Motor"}},
	{CategoryTransmission, []string{"Transmission"}},
	{CategoryClimate, []string{"HVAC", "Air"}},
	{CategoryDoors, []string{"Door"}},
	{CategoryElectronics, []string{"Signal", "Communication"}},
	{CategoryInfrastructure, []string{"Track", "Rail"}},
}

// Categories lists every category in rule priority order, Other last.
func Categories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

// Categorize maps a free-text task type to its cost category.
func Categorize(taskType string) Category {
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(taskType, kw) {
				return r.category
			}
		}
	}
	return CategoryOther
}
