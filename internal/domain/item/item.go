// Package item defines the core domain entities for zoo supplies.
// This package is PURE and must NOT import any infrastructure packages.
package item

// ItemType represents the kind of supply.
type ItemType string

const (
	FoodEucalyptus       ItemType = "EUCALYPTUS"        // Koalas eat nothing else
	FoodHerbivorePellets ItemType = "HERBIVORE_PELLETS" // Grazer staple
	FoodSeeds            ItemType = "SEEDS"             // Cheap bird feed
	FoodMeaty            ItemType = "MEATY_FOOD"        // Raptor diet
	FoodGeneral          ItemType = "GENERAL_FEED"      // Accepted by most species
	MedicineBasic        ItemType = "BASIC_MED"         // All-purpose veterinary dose
)

// ItemStack represents a quantity of a specific supply type.
type ItemStack struct {
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`
}

// ItemDefinition provides metadata about a supply type.
type ItemDefinition struct {
	Name        string
	Description string
	Price       float64 // Per unit, charged on purchase or walk-up use
	IsFood      bool
	Nutrition   float64 // Hunger reduction when hand-fed
	Healing     float64 // Health restoration per dose
}

// Registry contains all known supplies and their properties.
var Registry = map[ItemType]ItemDefinition{
	FoodEucalyptus: {
		Name:        "Eucalyptus Browse",
		Description: "Fresh-cut branches. The only thing a koala will look at.",
		Price:       3.0,
		IsFood:      true,
		Nutrition:   25,
	},
	FoodHerbivorePellets: {
		Name:        "Herbivore Pellets",
		Description: "Dense grazer feed. Roos queue up for it.",
		Price:       2.0,
		IsFood:      true,
		Nutrition:   22,
	},
	FoodSeeds: {
		Name:        "Seed Mix",
		Description: "Cheap and cheerful. Smaller birds thrive on it.",
		Price:       1.5,
		IsFood:      true,
		Nutrition:   18,
	},
	FoodMeaty: {
		Name:        "Meaty Food",
		Description: "Butcher's offcuts for the raptors. Spoils fast, priced to match.",
		Price:       4.0,
		IsFood:      true,
		Nutrition:   30,
	},
	FoodGeneral: {
		Name:        "General Feed",
		Description: "Mixed ration most species will tolerate.",
		Price:       2.5,
		IsFood:      true,
		Nutrition:   20,
	},
	MedicineBasic: {
		Name:        "Basic Veterinary Dose",
		Description: "Broad-spectrum treatment administered by the keeper.",
		Price:       30.0,
		IsFood:      false,
		Healing:     15,
	},
}

// foodOrder fixes the enumeration order for reports and purchase listings.
var foodOrder = []ItemType{
	FoodEucalyptus,
	FoodHerbivorePellets,
	FoodSeeds,
	FoodMeaty,
	FoodGeneral,
}

// GetItem returns the definition for a supply type.
func GetItem(t ItemType) (ItemDefinition, bool) {
	def, ok := Registry[t]
	return def, ok
}

// AllFoods returns every food type in stable order.
func AllFoods() []ItemType {
	out := make([]ItemType, len(foodOrder))
	copy(out, foodOrder)
	return out
}

// IsFood reports whether t names a known food type.
func IsFood(t ItemType) bool {
	def, ok := Registry[t]
	return ok && def.IsFood
}
