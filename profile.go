package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"avocal/nutrition-api/internal/nutrition"
)

// insertProfileWithPlanSQL creates a completed profile row with its plan.
const insertProfileWithPlanSQL = `INSERT INTO user_profiles (
		user_id, gender, age, height_cm, weight_kg, desired_weight_kg, goal,
		week_activity, diet_type, weekly_weight_change, units,
		daily_calorie_goal, tdee, protein_g, carbs_g, fat_g, onboarding_complete)
	 VALUES (
		@userID, @gender, @age, @heightCM, @weightKG, @desiredWeightKG, @goal,
		@weekActivity, @dietType, @weeklyWeightChange, @units,
		@calories, @tdee, @proteinG, @carbsG, @fatG, true)
	 RETURNING *`

// unitsFor maps the onboarding weight unit to the profile's display units.
func unitsFor(weightUnit string) string {
	if u := strings.ToLower(strings.TrimSpace(weightUnit)); u == "lb" || u == "lbs" {
		return "imperial"
	}
	return "metric"
}

// profileInsertArgs builds the named args for insertProfileWithPlanSQL.
func profileInsertArgs(userID int, in nutrition.PlanInput, calc nutrition.Calculation, units string) pgx.NamedArgs {
	diet := in.DietType
	if diet == "" {
		diet = nutrition.DietClassic
	}
	return pgx.NamedArgs{
		"userID":             userID,
		"gender":             string(in.Gender),
		"age":                in.Age,
		"heightCM":           in.Height,
		"weightKG":           in.Weight,
		"desiredWeightKG":    in.DesiredWeight,
		"goal":               string(in.Goal),
		"weekActivity":       string(in.WeekActivity),
		"dietType":           string(diet),
		"weeklyWeightChange": in.WeeklyWeightChange,
		"units":              units,
		"calories":           calc.Result.Calories,
		"tdee":               calc.Result.TDEE,
		"proteinG":           calc.Result.Macros.Protein,
		"carbsG":             calc.Result.Macros.Carbs,
		"fatG":               calc.Result.Macros.Fat,
	}
}

// profilePlanInput builds a PlanInput from the stored onboarding answers.
// Returns ok=false when any required field is nil or no longer valid.
func profilePlanInput(p *userProfile) (nutrition.PlanInput, bool) {
	if p.Gender == nil || p.Age == nil || p.HeightCM == nil || p.WeightKG == nil ||
		p.Goal == nil || p.WeekActivity == nil {
		return nutrition.PlanInput{}, false
	}

	gender, err := nutrition.ParseGender(*p.Gender)
	if err != nil {
		return nutrition.PlanInput{}, false
	}
	goal, err := nutrition.ParseGoal(*p.Goal)
	if err != nil {
		return nutrition.PlanInput{}, false
	}
	activity, err := nutrition.ParseWeekActivity(*p.WeekActivity)
	if err != nil {
		return nutrition.PlanInput{}, false
	}
	diet, err := nutrition.ParseDietType(p.DietType)
	if err != nil {
		return nutrition.PlanInput{}, false
	}

	return nutrition.PlanInput{
		Gender:             gender,
		Age:                *p.Age,
		Height:             *p.HeightCM,
		Weight:             *p.WeightKG,
		Goal:               goal,
		WeekActivity:       activity,
		DietType:           diet,
		WeeklyWeightChange: p.WeeklyWeightChange,
		DesiredWeight:      p.DesiredWeightKG,
	}, true
}

// populateComputedPlan fills ComputedPlan on p from its onboarding answers.
// No-ops if any required field is missing.
func populateComputedPlan(p *userProfile) {
	if in, ok := profilePlanInput(p); ok {
		plan := newPlanResponse(nutrition.Calculate(in))
		p.ComputedPlan = &plan
	}
}

// autoPlan returns the plan to persist after an update: non-nil only when
// plan_auto is on and the onboarding answers are complete.
func autoPlan(p *userProfile) *nutrition.Calculation {
	if !p.PlanAuto {
		return nil
	}
	in, ok := profilePlanInput(p)
	if !ok {
		return nil
	}
	calc := nutrition.Calculate(in)
	return &calc
}

// persistPlan stores the rounded plan on the user's profile row.
func persistPlan(ctx context.Context, q querier, userID int, calc nutrition.Calculation) (userProfile, error) {
	return queryOne[userProfile](q, ctx,
		`UPDATE user_profiles SET
			daily_calorie_goal = @calories,
			tdee               = @tdee,
			protein_g          = @proteinG,
			carbs_g            = @carbsG,
			fat_g              = @fatG,
			updated_at         = now()
		 WHERE user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":   userID,
			"calories": calc.Result.Calories,
			"tdee":     calc.Result.TDEE,
			"proteinG": calc.Result.Macros.Protein,
			"carbsG":   calc.Result.Macros.Carbs,
			"fatG":     calc.Result.Macros.Fat,
		})
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getProfile returns the authenticated user's profile. The live computed
// plan (with advisories) is included when the onboarding answers are complete.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	populateComputedPlan(&p)

	c.JSON(http.StatusOK, p)
}

// validate rejects values the calculator or the table constraints would not
// make sense of. Only fields present in the body are checked.
func (r patchProfileRequest) validate() error {
	if r.Gender != nil {
		if _, err := nutrition.ParseGender(*r.Gender); err != nil {
			return errors.New("gender must be one of: male, female, other")
		}
	}
	if r.Goal != nil {
		if _, err := nutrition.ParseGoal(*r.Goal); err != nil {
			return errors.New("goal must be one of: lose, maintain, gain, gain_muscle")
		}
	}
	if r.WeekActivity != nil {
		if _, err := nutrition.ParseWeekActivity(*r.WeekActivity); err != nil {
			return errors.New("week_activity must be one of: 0, 1-3, 4-5, 6+")
		}
	}
	if r.DietType != nil {
		if _, err := nutrition.ParseDietType(*r.DietType); err != nil || *r.DietType == "" {
			return errors.New("diet_type must be one of: classic, vegan, vegetarian")
		}
	}
	if r.Age != nil && (*r.Age <= 0 || *r.Age > maxAge) {
		return fmt.Errorf("age must be between 1 and %d", maxAge)
	}
	if r.HeightCM != nil && *r.HeightCM <= 0 {
		return errors.New("height_cm must be positive")
	}
	if r.WeightKG != nil && *r.WeightKG <= 0 {
		return errors.New("weight_kg must be positive")
	}
	if r.DesiredWeightKG != nil && *r.DesiredWeightKG <= 0 {
		return errors.New("desired_weight_kg must be positive")
	}
	if r.WeeklyWeightChange != nil && *r.WeeklyWeightChange < 0 {
		return errors.New("weekly_weight_change must not be negative")
	}
	if r.Units != nil && *r.Units != "metric" && *r.Units != "imperial" {
		return errors.New("units must be one of: metric, imperial")
	}
	if r.DailyCalorieGoal != nil && *r.DailyCalorieGoal <= 0 {
		return errors.New("daily_calorie_goal must be positive")
	}
	return nil
}

// setClauses builds the SET clause for the fields the client actually sent.
func (r patchProfileRequest) setClauses() ([]string, pgx.NamedArgs) {
	setClauses := []string{}
	args := pgx.NamedArgs{}

	if r.Gender != nil {
		setClauses = append(setClauses, "gender = @gender")
		args["gender"] = *r.Gender
	}
	if r.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *r.Age
	}
	if r.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *r.HeightCM
	}
	if r.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *r.WeightKG
	}
	if r.DesiredWeightKG != nil {
		setClauses = append(setClauses, "desired_weight_kg = @desiredWeightKG")
		args["desiredWeightKG"] = *r.DesiredWeightKG
	}
	if r.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *r.Goal
	}
	if r.WeekActivity != nil {
		setClauses = append(setClauses, "week_activity = @weekActivity")
		args["weekActivity"] = *r.WeekActivity
	}
	if r.DietType != nil {
		setClauses = append(setClauses, "diet_type = @dietType")
		args["dietType"] = *r.DietType
	}
	if r.WeeklyWeightChange != nil {
		setClauses = append(setClauses, "weekly_weight_change = @weeklyWeightChange")
		args["weeklyWeightChange"] = *r.WeeklyWeightChange
	}
	if r.Units != nil {
		setClauses = append(setClauses, "units = @units")
		args["units"] = *r.Units
	}
	if r.DailyCalorieGoal != nil {
		setClauses = append(setClauses, "daily_calorie_goal = @dailyCalorieGoal")
		args["dailyCalorieGoal"] = *r.DailyCalorieGoal
	}
	if r.PlanAuto != nil {
		setClauses = append(setClauses, "plan_auto = @planAuto")
		args["planAuto"] = *r.PlanAuto
	}
	if r.OnboardingComplete != nil {
		setClauses = append(setClauses, "onboarding_complete = @onboardingComplete")
		args["onboardingComplete"] = *r.OnboardingComplete
	}

	return setClauses, args
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero. When plan_auto is true after the update and the
// onboarding answers are complete, the recomputed plan is persisted in the
// same transaction; a failure there rolls back the field update too.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate before saving: a bad enum would silently break every later
	// plan computation for this user.
	if err := body.validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	setClauses, args := body.setClauses()
	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	setClauses = append(setClauses, "updated_at = now()")
	args["userID"] = userID

	query := "UPDATE user_profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	// Field update and auto re-plan commit or roll back together.
	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	defer tx.Rollback(c)

	p, err := queryOne[userProfile](tx, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	calc := autoPlan(&p)
	if calc != nil {
		p, err = persistPlan(c, tx, userID, *calc)
		if err != nil {
			log.Printf("[patchProfile] auto-plan update failed for user %d: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to save plan")
			return
		}
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("[patchProfile] commit failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	if calc != nil {
		logAdvisories("patchProfile", userID, calc.Advisories)
	}
	populateComputedPlan(&p)

	c.JSON(http.StatusOK, p)
}

// recalculateProfile recomputes the plan from the stored answers and
// persists it regardless of plan_auto.
// POST /api/profile/recalculate. 422 when the answers are incomplete.
func (h *Handler) recalculateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	in, ok := profilePlanInput(&p)
	if !ok {
		apiError(c, http.StatusUnprocessableEntity, "profile is missing onboarding answers")
		return
	}

	calc := nutrition.Calculate(in)
	updated, err := persistPlan(c, h.db, userID, calc)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}
	logAdvisories("recalculateProfile", userID, calc.Advisories)

	plan := newPlanResponse(calc)
	updated.ComputedPlan = &plan

	c.JSON(http.StatusOK, updated)
}
