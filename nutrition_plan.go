package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"avocal/nutrition-api/internal/nutrition"
)

// maxAge guards against implausible ages, same bound the profile uses.
const maxAge = 130

// planInput validates the onboarding payload and converts it to a metric
// PlanInput. The calculator accepts anything, so this is where implausible
// values get rejected.
func (r nutritionPlanRequest) planInput() (nutrition.PlanInput, error) {
	gender, err := nutrition.ParseGender(r.Gender)
	if err != nil {
		return nutrition.PlanInput{}, err
	}
	goal, err := nutrition.ParseGoal(r.Goal)
	if err != nil {
		return nutrition.PlanInput{}, err
	}
	activity, err := nutrition.ParseWeekActivity(r.WeekActivity)
	if err != nil {
		return nutrition.PlanInput{}, err
	}
	diet, err := nutrition.ParseDietType(r.DietType)
	if err != nil {
		return nutrition.PlanInput{}, err
	}

	if r.Age <= 0 || r.Age > maxAge {
		return nutrition.PlanInput{}, errors.New("age must be between 1 and 130")
	}
	if r.Height <= 0 || r.Weight <= 0 {
		return nutrition.PlanInput{}, errors.New("height and weight must be positive")
	}
	if r.WeeklyWeightChange != nil && *r.WeeklyWeightChange < 0 {
		return nutrition.PlanInput{}, errors.New("weekly_weight_change must not be negative")
	}

	heightCM, err := nutrition.HeightToCM(r.Height, r.HeightUnit)
	if err != nil {
		return nutrition.PlanInput{}, err
	}
	weightKG, err := nutrition.WeightToKG(r.Weight, r.WeightUnit)
	if err != nil {
		return nutrition.PlanInput{}, err
	}

	in := nutrition.PlanInput{
		Gender:             gender,
		Age:                r.Age,
		Height:             heightCM,
		Weight:             weightKG,
		Goal:               goal,
		WeekActivity:       activity,
		DietType:           diet,
		WeeklyWeightChange: r.WeeklyWeightChange,
	}
	if r.DesiredWeight != nil && *r.DesiredWeight > 0 {
		desired, err := nutrition.WeightToKG(*r.DesiredWeight, r.WeightUnit)
		if err != nil {
			return nutrition.PlanInput{}, err
		}
		in.DesiredWeight = &desired
	}
	return in, nil
}

// logAdvisories writes each advisory of a computed plan to the server log.
// userID is 0 for anonymous onboarding requests.
func logAdvisories(tag string, userID int, advisories []nutrition.Advisory) {
	for _, a := range advisories {
		log.Printf("[%s] advisory for user %d: %s: %s", tag, userID, a.Code, a.Message)
	}
}

// calculateNutritionPlan computes a plan from an onboarding payload without
// storing anything.
// POST /api/nutrition-plan (public; onboarding happens before signup).
func (h *Handler) calculateNutritionPlan(c *gin.Context) {
	var req nutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.planInput()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	calc := nutrition.Calculate(in)
	logAdvisories("calculateNutritionPlan", 0, calc.Advisories)

	c.JSON(http.StatusOK, newPlanResponse(calc))
}
