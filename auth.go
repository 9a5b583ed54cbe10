package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"avocal/nutrition-api/internal/nutrition"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// minPasswordLen is the shortest password signup accepts.
const minPasswordLen = 8

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// login verifies username/password and returns the user's auth token.
// POST /api/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt so a missing username costs the same as a wrong password.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// validate checks the signup body and, when onboarding answers are present,
// converts them to a PlanInput. Runs before any DB work.
func (r signupRequest) validate() (*nutrition.PlanInput, error) {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" {
		return nil, errors.New("username and email are required")
	}
	if len(r.Password) < minPasswordLen {
		return nil, errors.New("password must be at least 8 characters")
	}
	if r.Onboarding == nil {
		return nil, nil
	}
	in, err := r.Onboarding.planInput()
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// signup creates a user and its profile in one transaction. When the body
// carries the onboarding answers the plan is computed and stored with the
// profile; otherwise the profile keeps the default 2000 kcal goal.
// POST /api/signup (public).
func (h *Handler) signup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := body.validate()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[signup] bcrypt error: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	authToken := uuid.New().String()

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	defer tx.Rollback(c)

	u, err := queryOne[user](tx, c,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken) RETURNING *`,
		pgx.NamedArgs{
			"username":  strings.TrimSpace(body.Username),
			"email":     strings.TrimSpace(body.Email),
			"password":  string(hash),
			"authToken": authToken,
		})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			apiError(c, http.StatusConflict, "username or email already taken")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	args := pgx.NamedArgs{"userID": u.ID}
	var calc *nutrition.Calculation
	if in != nil {
		result := nutrition.Calculate(*in)
		calc = &result
		args = profileInsertArgs(u.ID, *in, result, unitsFor(body.Onboarding.WeightUnit))
	}

	query := "INSERT INTO user_profiles (user_id) VALUES (@userID) RETURNING *"
	if calc != nil {
		query = insertProfileWithPlanSQL
	}
	p, err := queryOne[userProfile](tx, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("[signup] commit failed for user %d: %v", u.ID, err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	if calc != nil {
		logAdvisories("signup", u.ID, calc.Advisories)
		plan := newPlanResponse(*calc)
		p.ComputedPlan = &plan
	}

	c.JSON(http.StatusCreated, gin.H{"token": authToken, "user_id": u.ID, "profile": p})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		var userID int
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
