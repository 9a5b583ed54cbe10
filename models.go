package main

import (
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"avocal/nutrition-api/internal/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user holding the onboarding
// answers (stored metric) and the last persisted nutrition plan. Onboarding
// fields are nullable so a freshly signed-up user still has a usable row.
type userProfile struct {
	UserID int `json:"user_id" db:"user_id"`

	Gender             *string  `json:"gender"               db:"gender"`
	Age                *int     `json:"age"                  db:"age"`
	HeightCM           *float64 `json:"height_cm"            db:"height_cm"`
	WeightKG           *float64 `json:"weight_kg"            db:"weight_kg"`
	DesiredWeightKG    *float64 `json:"desired_weight_kg"    db:"desired_weight_kg"`
	Goal               *string  `json:"goal"                 db:"goal"`
	WeekActivity       *string  `json:"week_activity"        db:"week_activity"`
	DietType           string   `json:"diet_type"            db:"diet_type"`
	WeeklyWeightChange *float64 `json:"weekly_weight_change" db:"weekly_weight_change"`
	Units              string   `json:"units"                db:"units"`

	// Persisted plan. daily_calorie_goal defaults to 2000 until a plan is computed.
	DailyCalorieGoal int  `json:"daily_calorie_goal" db:"daily_calorie_goal"`
	TDEE             *int `json:"tdee"               db:"tdee"`
	ProteinG         *int `json:"protein_g"          db:"protein_g"`
	CarbsG           *int `json:"carbs_g"            db:"carbs_g"`
	FatG             *int `json:"fat_g"              db:"fat_g"`

	PlanAuto           bool       `json:"plan_auto"           db:"plan_auto"`
	OnboardingComplete bool       `json:"onboarding_complete" db:"onboarding_complete"`
	CreatedAt          *time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"          db:"updated_at"`

	// Computed fields, populated server-side from the onboarding answers; not
	// stored in DB. db:"-" tells RowToStructByName to skip them.
	ComputedPlan *planResponse `json:"computed_plan,omitempty" db:"-"`
}

// weightEntry maps to weight_log. One weigh-in per user per day, stored in kg.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// planResponse is the JSON shape of a computed plan: the rounded result
// (calories, tdee, macros) plus the figures behind it.
type planResponse struct {
	nutrition.NutritionPlanResult
	BMR         int                        `json:"bmr"`
	Percentages nutrition.MacroPercentages `json:"percentages"`
	Advisories  []nutrition.Advisory       `json:"advisories"`
}

func newPlanResponse(calc nutrition.Calculation) planResponse {
	advisories := calc.Advisories
	// Ensure advisories is an empty array (not null) in JSON
	if advisories == nil {
		advisories = []nutrition.Advisory{}
	}
	return planResponse{
		NutritionPlanResult: calc.Result,
		BMR:                 int(math.Round(calc.BMR)),
		Percentages:         calc.Percentages,
		Advisories:          advisories,
	}
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// weightEntryRequest is the request body for POST /api/weight-log.
type weightEntryRequest struct {
	Date       string  `json:"date"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weight_unit"` // "kg" (default) or "lbs"
}

// weightEntryUpdateRequest is the request body for PUT /api/weight-log/:id.
// Nil fields keep their stored value; weight_unit applies to weight.
type weightEntryUpdateRequest struct {
	Date       *string  `json:"date"`
	Weight     *float64 `json:"weight"`
	WeightUnit string   `json:"weight_unit"`
}

// nutritionPlanRequest is the onboarding payload for POST /api/nutrition-plan
// and the optional "onboarding" object of POST /api/signup. Height and
// weight may be sent in imperial units; desired_weight uses weight_unit.
type nutritionPlanRequest struct {
	Gender             string   `json:"gender"`
	Age                int      `json:"age"`
	Height             float64  `json:"height"`
	HeightUnit         string   `json:"height_unit"` // "cm" (default) or "in"
	Weight             float64  `json:"weight"`
	WeightUnit         string   `json:"weight_unit"` // "kg" (default) or "lbs"
	Goal               string   `json:"goal"`
	WeekActivity       string   `json:"week_activity"`
	DietType           string   `json:"diet_type"`
	WeeklyWeightChange *float64 `json:"weekly_weight_change"`
	DesiredWeight      *float64 `json:"desired_weight"`
}

// signupRequest is the request body for POST /api/signup.
type signupRequest struct {
	Username   string                `json:"username"`
	Email      string                `json:"email"`
	Password   string                `json:"password"`
	Onboarding *nutritionPlanRequest `json:"onboarding"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers; only non-nil fields get written to the database.
// Biometrics are metric; the client converts using units.
type patchProfileRequest struct {
	Gender             *string  `json:"gender"`
	Age                *int     `json:"age"`
	HeightCM           *float64 `json:"height_cm"`
	WeightKG           *float64 `json:"weight_kg"`
	DesiredWeightKG    *float64 `json:"desired_weight_kg"`
	Goal               *string  `json:"goal"`
	WeekActivity       *string  `json:"week_activity"`
	DietType           *string  `json:"diet_type"`
	WeeklyWeightChange *float64 `json:"weekly_weight_change"`
	Units              *string  `json:"units"`
	DailyCalorieGoal   *int     `json:"daily_calorie_goal"`
	PlanAuto           *bool    `json:"plan_auto"`
	OnboardingComplete *bool    `json:"onboarding_complete"`
}
