package calculator

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrInvalidMeasurement = errors.New("height and weight must be positive numbers")

type Classification string

const (
	UnderWeight Classification = "UnderWeight"
	Normal      Classification = "Normal"
	OverWeight  Classification = "OverWeight"
	Obese       Classification = "Obese"
)

const (
	SexMale   = "Male"
	SexFemale = "Female"
	SexOther  = "Other"
)

const (
	ActivitySedentary   = "sedentary"
	ActivityLight       = "light"
	ActivityModerate    = "moderate"
	ActivityIntense     = "intense"
	ActivityVeryIntense = "very-intense"
)

const (
	GoalGain     = "gain weight"
	GoalLose     = "lose weight"
	GoalMaintain = "maintain weight"
)

var activityFactors = map[string]float64{
	ActivitySedentary:   1.20,
	ActivityLight:       1.375,
	ActivityModerate:    1.55,
	ActivityIntense:     1.725,
	ActivityVeryIntense: 1.90,
}

const defaultActivityFactor = 1.20

// ComputeBMI is weight/height² rounded to two decimals.
func ComputeBMI(heightM, weightKg float64) (float64, error) {
	if !(heightM > 0) || !(weightKg > 0) || math.IsInf(heightM, 0) || math.IsInf(weightKg, 0) {
		return 0, ErrInvalidMeasurement
	}
	return round2(weightKg / (heightM * heightM)), nil
}

// ClassifyBMI uses the 18.5 / 25 / 30 cut-offs.
func ClassifyBMI(bmi float64) Classification {
	switch {
	case bmi < 18.5:
		return UnderWeight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return OverWeight
	default:
		return Obese
	}
}

// ActivityFactor falls back to sedentary for unknown levels.
func ActivityFactor(level string) float64 {
	if f, ok := activityFactors[strings.ToLower(strings.TrimSpace(level))]; ok {
		return f
	}
	return defaultActivityFactor
}

func GoalAdjustment(goal string) float64 {
	switch strings.ToLower(strings.TrimSpace(goal)) {
	case GoalGain:
		return 500
	case GoalLose:
		return -500
	default:
		return 0
	}
}

// BasalMetabolicRate is the Mifflin-St Jeor estimate in kcal/day.
func BasalMetabolicRate(sex string, ageYears int, weightKg, heightM float64) float64 {
	heightCm := heightM * 100
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if strings.EqualFold(strings.TrimSpace(sex), SexMale) {
		return base + 5
	}
	return base - 161
}

func EstimateDailyCalories(sex, activityLevel, goal string, ageYears int, weightKg, heightM float64) int {
	bmr := BasalMetabolicRate(sex, ageYears, weightKg, heightM)
	return int(math.Round(bmr*ActivityFactor(activityLevel) + GoalAdjustment(goal)))
}

// AgeOn returns completed years between birth and on.
func AgeOn(birth, on time.Time) int {
	years := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

/*
CANONICAL NAMES
Inputs are matched case-insensitively; ok is false for unknown values.
*/

func CanonicalSex(s string) (string, bool) {
	for _, v := range []string{SexMale, SexFemale, SexOther} {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return v, true
		}
	}
	return "", false
}

func CanonicalActivity(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := activityFactors[key]; ok {
		return key, true
	}
	return "", false
}

// CanonicalGoal lowercases the known goals and keeps any other text trimmed.
func CanonicalGoal(s string) string {
	trimmed := strings.TrimSpace(s)
	switch key := strings.ToLower(trimmed); key {
	case GoalGain, GoalLose, GoalMaintain:
		return key
	}
	return trimmed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
