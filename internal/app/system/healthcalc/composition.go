package healthcalc

// Composition splits body weight into fat and lean mass and derives the
// tissue estimates shown on the body composition tab.
type Composition struct {
	FatMassKg    float64
	LeanMassKg   float64
	MuscleMassKg float64
	WaterPercent float64

	// Rough resting-energy split: lean tissue ~13 kcal/kg, fat ~4.5 kcal/kg,
	// the remainder attributed to organs.
	LeanBMR  float64
	FatBMR   float64
	OtherBMR float64
}

// MuscleMass estimates skeletal muscle as 45% (male) or 40% (female) of lean mass.
func MuscleMass(leanMassKg float64, gender string) float64 {
	if IsMale(gender) {
		return round(leanMassKg*0.45, 1)
	}
	return round(leanMassKg*0.40, 1)
}

// BodyComposition derives a Composition from the basic measurements.
func BodyComposition(weightKg, bodyFat float64, age int, gender string, bmr int) Composition {
	fat := bodyFat / 100 * weightKg
	lean := weightKg - fat
	c := Composition{
		FatMassKg:    round(fat, 1),
		LeanMassKg:   round(lean, 1),
		MuscleMassKg: MuscleMass(lean, gender),
		WaterPercent: BodyWaterPercent(weightKg, age, gender),
		LeanBMR:      round(lean*13, 0),
		FatBMR:       round(fat*4.5, 0),
	}
	c.OtherBMR = max(0, float64(bmr)-c.LeanBMR-c.FatBMR)
	return c
}
