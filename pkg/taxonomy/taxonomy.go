package taxonomy

import "strings"

// FoodClassInfo is the static nutrition reference for one canonical food key.
type FoodClassInfo struct {
	CaloriesPer100g float64
	DefaultWeightG  float64
}

// foodClasses enumerates the canonical food taxonomy. Fixed at build time,
// never mutated at runtime.
var foodClasses = map[string]FoodClassInfo{
	"apple":     {CaloriesPer100g: 52, DefaultWeightG: 182},
	"banana":    {CaloriesPer100g: 89, DefaultWeightG: 118},
	"orange":    {CaloriesPer100g: 47, DefaultWeightG: 131},
	"pizza":     {CaloriesPer100g: 266, DefaultWeightG: 107},
	"hamburger": {CaloriesPer100g: 295, DefaultWeightG: 226},
	"sandwich":  {CaloriesPer100g: 250, DefaultWeightG: 150},
	"salad":     {CaloriesPer100g: 20, DefaultWeightG: 200},
	"rice":      {CaloriesPer100g: 130, DefaultWeightG: 158},
	"pasta":     {CaloriesPer100g: 131, DefaultWeightG: 140},
	"chicken":   {CaloriesPer100g: 239, DefaultWeightG: 140},
	"steak":     {CaloriesPer100g: 271, DefaultWeightG: 221},
	"fish":      {CaloriesPer100g: 206, DefaultWeightG: 154},
	"egg":       {CaloriesPer100g: 155, DefaultWeightG: 50},
	"bread":     {CaloriesPer100g: 265, DefaultWeightG: 30},
	"cake":      {CaloriesPer100g: 257, DefaultWeightG: 80},
	"cookie":    {CaloriesPer100g: 502, DefaultWeightG: 30},
	"soup":      {CaloriesPer100g: 40, DefaultWeightG: 240},
	"coffee":    {CaloriesPer100g: 2, DefaultWeightG: 240},
	"juice":     {CaloriesPer100g: 45, DefaultWeightG: 240},
	"milk":      {CaloriesPer100g: 42, DefaultWeightG: 244},
}

// aliases maps common detector-vocabulary variants onto canonical keys.
// An empty value marks a label with no canonical food meaning; such labels
// are dropped instead of passed through.
var aliases = map[string]string{
	"hot dog":      "hotdog",
	"french fries": "fries",
	"doughnut":     "donut",
	"cup":          "coffee",
	"bowl":         "soup",
	"plate":        "",
}

// Resolve maps a raw detector label to a canonical food key. Labels without
// a taxonomy entry or alias pass through lowercased, so downstream estimation
// can still apply a generic default weight. The second return is false only
// for labels explicitly marked as having no food meaning.
func Resolve(label string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))

	if _, ok := foodClasses[key]; ok {
		return key, true
	}

	if alias, ok := aliases[key]; ok {
		if alias == "" {
			return "", false
		}
		return alias, true
	}

	return key, true
}

// Lookup returns the nutrition reference for a canonical food key.
func Lookup(key string) (FoodClassInfo, bool) {
	info, ok := foodClasses[strings.ToLower(key)]
	return info, ok
}

// Keys returns all canonical food keys. The slice is a copy.
func Keys() []string {
	keys := make([]string, 0, len(foodClasses))
	for k := range foodClasses {
		keys = append(keys, k)
	}
	return keys
}
