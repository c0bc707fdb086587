// Package healthcalc holds the body-measurement formulas used across the app.
//
// Every function is pure and safe to call with zero or negative inputs:
// divisions are guarded and return 0 instead of panicking or producing NaN.
// Rounding is half away from zero at the stated number of decimals.
package healthcalc

import (
	"math"
	"strings"
)

// IsMale reports whether a gender value is male-coded. Anything else,
// including an empty string, is treated as the female-coded branch of a
// formula.
func IsMale(gender string) bool {
	return strings.EqualFold(strings.TrimSpace(gender), "Male")
}

// BMI returns weight / height(m)^2 rounded to 2 decimals, or 0 when height <= 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return round(weightKg/(m*m), 2)
}

// BodyFatPercent is the YMCA/Deurenberg estimate from BMI and age, 1 decimal.
func BodyFatPercent(bmi float64, age int, gender string) float64 {
	c := 5.4
	if IsMale(gender) {
		c = 16.2
	}
	return round(1.20*bmi+0.23*float64(age)-c, 1)
}

// BMR is the Mifflin-St Jeor basal metabolic rate, truncated to an integer.
func BMR(weightKg, heightCm float64, age int, gender string) int {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if IsMale(gender) {
		return int(base + 5)
	}
	return int(base - 161)
}

// IdealWeight uses the Devine formula, 1 decimal.
func IdealWeight(heightCm float64, gender string) float64 {
	inchesOver5ft := heightCm/2.54 - 60
	if IsMale(gender) {
		return round(50+2.3*inchesOver5ft, 1)
	}
	return round(45.5+2.3*inchesOver5ft, 1)
}

// BodyWaterPercent is the Watson total-body-water estimate as a share of
// body weight. Height is fixed at 175 cm (male) or 160 cm (female).
func BodyWaterPercent(weightKg float64, age int, gender string) float64 {
	if weightKg <= 0 {
		return 0
	}
	var tbw float64
	if IsMale(gender) {
		tbw = 2.447 - 0.09156*float64(age) + 0.1074*175 + 0.3362*weightKg
	} else {
		tbw = -2.097 + 0.1069*160 + 0.2466*weightKg
	}
	return round(tbw/weightKg*100, 1)
}

// HealthScore starts at 100 and subtracts penalties for BMI, body fat and
// age bands. The result is clamped to 0..100.
func HealthScore(bmi, bodyFat float64, age int) int {
	score := 100

	switch {
	case bmi < 18.5 || bmi >= 30:
		score -= 30
	case bmi >= 25:
		score -= 15
	}

	switch {
	case bodyFat > 35:
		score -= 25
	case bodyFat > 25:
		score -= 10
	}

	// The >65 band is shadowed by >50, so every age above 50 costs 5 points.
	if age > 50 {
		score -= 5
	}

	return max(0, min(100, score))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
