package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"avocal/nutrition-api/internal/nutrition"
)

func TestSignupRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     signupRequest
		wantErr bool
		wantIn  bool
	}{
		{"no onboarding", signupRequest{Username: "ana", Email: "ana@example.com", Password: "longenough"}, false, false},
		{"blank username", signupRequest{Username: "  ", Email: "ana@example.com", Password: "longenough"}, true, false},
		{"short password", signupRequest{Username: "ana", Email: "ana@example.com", Password: "short"}, true, false},
		{"with onboarding", signupRequest{
			Username: "ana", Email: "ana@example.com", Password: "longenough",
			Onboarding: &nutritionPlanRequest{Gender: "female", Age: 30, Height: 165, Weight: 60, Goal: "lose", WeekActivity: "0"},
		}, false, true},
		{"bad onboarding", signupRequest{
			Username: "ana", Email: "ana@example.com", Password: "longenough",
			Onboarding: &nutritionPlanRequest{Gender: "female", Age: 30, Height: 165, Weight: 60, Goal: "shred", WeekActivity: "0"},
		}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := tc.req.validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if (in != nil) != tc.wantIn {
				t.Errorf("validate() input = %+v, want input %v", in, tc.wantIn)
			}
		})
	}
}

func TestSignupRequest_ValidateConvertsOnboarding(t *testing.T) {
	req := signupRequest{
		Username: "ana", Email: "ana@example.com", Password: "longenough",
		Onboarding: &nutritionPlanRequest{
			Gender: "male", Age: 30, Height: 180, Weight: 80,
			Goal: "maintain", WeekActivity: "1-3",
		},
	}
	in, err := req.validate()
	if err != nil {
		t.Fatalf("validate() error: %v", err)
	}
	if got := nutrition.CalculateNutritionPlan(*in).Calories; got != 2448 {
		t.Errorf("calories = %d, want 2448", got)
	}
}

/* ─── Handler tests (no DB: rejected before any query) ───────────────── */

func TestSignup_RejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.POST("/api/signup", h.signup)

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"username":`},
		{"short password", `{"username":"ana","email":"ana@example.com","password":"abc"}`},
		{"bad onboarding", `{"username":"ana","email":"ana@example.com","password":"longenough","onboarding":{"gender":"male","age":30,"height":180,"weight":80,"goal":"lose","week_activity":"7"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/signup", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	reached := false
	router.GET("/api/profile", h.authMiddleware(), func(c *gin.Context) {
		reached = true
	})

	for _, header := range []string{"", "Token abc", "bearer abc"} {
		req := httptest.NewRequest("GET", "/api/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
	if reached {
		t.Error("handler ran without a valid Authorization header")
	}
}
