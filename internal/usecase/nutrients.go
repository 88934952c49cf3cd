package usecase

// NutrientField pairs a USDA nutrient identifier with the canonical
// output column it feeds.
type NutrientField struct {
	NutrientID int
	Column     string
}

// NutrientMapping is an ordered, immutable configuration table for one
// dataset. Order defines the output column order, so it must stay
// stable across runs.
type NutrientMapping []NutrientField

// Columns returns the canonical column names in mapping order.
func (m NutrientMapping) Columns() []string {
	cols := make([]string, len(m))
	for i, f := range m {
		cols[i] = f.Column
	}
	return cols
}

// BrandedNutrients is the canonical subset kept for barcode products.
var BrandedNutrients = NutrientMapping{
	{1008, "calories"},        // Energy (kcal)
	{1003, "protein_g"},       // Protein
	{1004, "fat_g"},           // Total lipid (fat)
	{1005, "carbs_g"},         // Carbohydrate
	{1079, "fiber_g"},         // Fiber, total dietary
	{2000, "sugar_g"},         // Sugars, total
	{1093, "sodium_mg"},       // Sodium
	{1258, "saturated_fat_g"}, // Fatty acids, total saturated
}

// SurveyNutrients is the canonical set kept for FNDDS survey foods,
// per 100g.
var SurveyNutrients = NutrientMapping{
	{1008, "energy_kcal"},
	{1003, "protein_g"},
	{1004, "fat_g"},
	{1005, "carbohydrate_g"},
	{1079, "fiber_g"},
	{2000, "sugar_g"},
	{1258, "saturated_fat_g"},
	{1292, "monounsaturated_fat_g"},
	{1293, "polyunsaturated_fat_g"},
	{1253, "cholesterol_mg"},
	{1087, "calcium_mg"},
	{1089, "iron_mg"},
	{1090, "magnesium_mg"},
	{1091, "phosphorus_mg"},
	{1092, "potassium_mg"},
	{1093, "sodium_mg"},
	{1095, "zinc_mg"},
	{1098, "copper_mg"},
	{1103, "selenium_mcg"},
	{1162, "vitamin_c_mg"},
	{1165, "thiamin_mg"},
	{1166, "riboflavin_mg"},
	{1167, "niacin_mg"},
	{1175, "vitamin_b6_mg"},
	{1190, "folate_dfe_mcg"},
	{1178, "vitamin_b12_mcg"},
	{1106, "vitamin_a_rae_mcg"},
	{1109, "vitamin_e_mg"},
	{1114, "vitamin_d_mcg"},
	{1185, "vitamin_k_mcg"},
	{1057, "caffeine_mg"},
	{1051, "water_g"},
}

// LegacyNutrients is the canonical set kept for SR Legacy reference
// foods, per 100g.
var LegacyNutrients = NutrientMapping{
	{1008, "calories"},
	{1004, "fat_g"},
	{1258, "saturated_fat_g"},
	{1292, "monounsaturated_fat_g"},
	{1293, "polyunsaturated_fat_g"},
	{1003, "protein_g"},
	{1005, "carbohydrate_g"},
	{1079, "fiber_g"},
	{2000, "sugar_g"},
	{1253, "cholesterol_mg"},
	{1106, "vitamin_a_rae_mcg"},
	{1175, "vitamin_b6_mg"},
	{1178, "vitamin_b12_mcg"},
	{1162, "vitamin_c_mg"},
	{1114, "vitamin_d_mcg"},
	{1109, "vitamin_e_mg"},
	{1185, "vitamin_k_mcg"},
	{1165, "thiamin_mg"},
	{1166, "riboflavin_mg"},
	{1167, "niacin_mg"},
	{1177, "folate_mcg"},
	{1176, "biotin_mcg"},
	{1170, "pantothenic_acid_mg"},
	{1087, "calcium_mg"},
	{1089, "iron_mg"},
	{1090, "magnesium_mg"},
	{1101, "manganese_mg"},
	{1091, "phosphorus_mg"},
	{1092, "potassium_mg"},
	{1093, "sodium_mg"},
	{1095, "zinc_mg"},
	{1096, "chromium_mcg"},
	{1098, "copper_mg"},
	{1100, "iodine_mcg"},
	{1102, "molybdenum_mcg"},
	{1103, "selenium_mcg"},
	{1088, "chloride_mg"},
	{1051, "water_g"},
	{1057, "caffeine_mg"},
}
