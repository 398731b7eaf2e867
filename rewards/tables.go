package rewards

// Category is a waste material classification. Lookup tables fall back to
// default values for strings outside the known set, so client-supplied labels
// never error.
type Category string

const (
	CategoryPlastic    Category = "plastic"
	CategoryPaper      Category = "paper"
	CategoryMetal      Category = "metal"
	CategoryGlass      Category = "glass"
	CategoryOrganic    Category = "organic"
	CategoryElectronic Category = "electronic"
	CategoryHazardous  Category = "hazardous"
)

// Base customer points per item by category.
var customerPoints = map[Category]int{
	CategoryPlastic:    10,
	CategoryPaper:      8,
	CategoryMetal:      15,
	CategoryGlass:      12,
	CategoryOrganic:    5,
	CategoryElectronic: 25,
	CategoryHazardous:  20,
}

// CO2 kg saved per kg of recycled material by category.
var co2PerKg = map[Category]float64{
	CategoryPlastic:    2.0,
	CategoryPaper:      1.5,
	CategoryMetal:      3.5,
	CategoryGlass:      0.5,
	CategoryOrganic:    0.3,
	CategoryElectronic: 4.0,
	CategoryHazardous:  2.5,
}

// Defaults for unmapped categories. These exact values are load-bearing:
// existing clients rely on unknown labels earning 10 points and 1.0 kg/kg.
const (
	defaultCustomerPoints = 10
	defaultCO2PerKg       = 1.0
)

// Agent reward constants.
const (
	AgentBasePickup  = 50 // base points per completed pickup
	AgentSpeedBonus  = 10 // completed within 1 hour of acceptance
	AgentRatingBonus = 20 // 5-star rating from the customer

	agentPerformanceMultiplier = 1.1 // 50+ completed pickups
	agentPerformanceThreshold  = 50
)

// Customer bonus multipliers.
const (
	StreakBonus    = 1.2 // 7+ consecutive recycling days
	BulkBonus      = 1.5 // 10+ items in one classification
	FirstTimeBonus = 2.0 // user's very first classification

	streakBonusThreshold = 7
	bulkBonusThreshold   = 10
)

// BasePoints returns the per-item customer points for a category, falling back
// to the default for unknown categories.
func BasePoints(category Category) int {
	if pts, ok := customerPoints[category]; ok {
		return pts
	}
	return defaultCustomerPoints
}

// CO2Factor returns the kg of CO2 saved per kg recycled for a category.
func CO2Factor(category Category) float64 {
	if f, ok := co2PerKg[category]; ok {
		return f
	}
	return defaultCO2PerKg
}

// KnownCategories lists the categories with dedicated table entries.
func KnownCategories() []Category {
	return []Category{
		CategoryPlastic,
		CategoryPaper,
		CategoryMetal,
		CategoryGlass,
		CategoryOrganic,
		CategoryElectronic,
		CategoryHazardous,
	}
}
