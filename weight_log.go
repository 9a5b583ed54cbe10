package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"avocal/nutrition-api/internal/nutrition"
)

// maxWeightKG bounds a single weigh-in.
const maxWeightKG = 500.0

// weightKG validates the body and returns the weight converted to kg.
func (r weightEntryRequest) weightKG() (float64, error) {
	if r.Date == "" {
		return 0, errors.New("date is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return 0, errors.New("invalid date, expected YYYY-MM-DD")
	}
	kg, err := nutrition.WeightToKG(r.Weight, r.WeightUnit)
	if err != nil {
		return 0, err
	}
	if kg <= 0 || kg > maxWeightKG {
		return 0, fmt.Errorf("weight must be between 0 and %.0f kg", maxWeightKG)
	}
	return kg, nil
}

// syncProfileWeight moves the profile's weight_kg to kg when date is the
// user's latest weigh-in, and with plan_auto on recomputes and persists the
// plan. Returns a nil profile when a later weigh-in exists, and a nil calc
// when no plan was recomputed. Runs on the caller's transaction.
func syncProfileWeight(ctx context.Context, tx pgx.Tx, userID int, date string, kg float64) (*userProfile, *nutrition.Calculation, error) {
	// No row back means a later weigh-in exists, so the profile keeps its weight.
	p, err := queryOne[userProfile](tx, ctx,
		`UPDATE user_profiles SET weight_kg = @weightKG, updated_at = now()
		 WHERE user_id = @userID
		   AND NOT EXISTS (
			SELECT 1 FROM weight_log WHERE user_id = @userID AND date > @date)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": date, "weightKG": kg})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	calc := autoPlan(&p)
	if calc == nil {
		return &p, nil, nil
	}
	updated, err := persistPlan(ctx, tx, userID, *calc)
	if err != nil {
		return nil, nil, err
	}
	return &updated, calc, nil
}

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry records the weigh-in for the given date. Posting the same
// date again updates it in place.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight": 80.5, "weight_unit"?: "kg"|"lbs" }.
//
// When the entry is the user's most recent, the profile's weight_kg follows
// it, and with plan_auto on the plan is recomputed for the new weight. The
// response carries the updated profile in that case, otherwise profile is null.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body weightEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	kg, err := body.weightKG()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	defer tx.Rollback(c)

	entry, err := queryOne[weightEntry](tx, c,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKG)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "weightKG": kg})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	profile, calc, err := syncProfileWeight(c, tx, userID, body.Date, kg)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile weight")
		return
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("[upsertWeightEntry] commit failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	if calc != nil {
		logAdvisories("upsertWeightEntry", userID, calc.Advisories)
	}
	if profile != nil {
		populateComputedPlan(profile)
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "profile": profile})
}

// validate checks the fields the client sent and returns the weight
// converted to kg, nil when weight was not sent.
func (r weightEntryUpdateRequest) validate() (*float64, error) {
	if r.Date != nil {
		if _, err := time.Parse("2006-01-02", *r.Date); err != nil {
			return nil, errors.New("invalid date, expected YYYY-MM-DD")
		}
	}
	if r.Weight == nil {
		return nil, nil
	}
	kg, err := nutrition.WeightToKG(*r.Weight, r.WeightUnit)
	if err != nil {
		return nil, err
	}
	if kg <= 0 || kg > maxWeightKG {
		return nil, fmt.Errorf("weight must be between 0 and %.0f kg", maxWeightKG)
	}
	return &kg, nil
}

// updateWeightEntry partially updates an existing weight entry.
// PUT /api/weight-log/:id. Body: { "date"?, "weight"?, "weight_unit"? }.
// Uses COALESCE so omitted fields keep their current values. The updated
// entry goes through the same profile sync as upsertWeightEntry.
func (h *Handler) updateWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body weightEntryUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	kg, err := body.validate()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		return
	}
	defer tx.Rollback(c)

	entry, err := queryOne[weightEntry](tx, c,
		`UPDATE weight_log SET
			date      = COALESCE(@date::date, date),
			weight_kg = COALESCE(@weightKG::double precision, weight_kg)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "date": body.Date, "weightKG": kg})
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			apiError(c, http.StatusNotFound, "weight entry not found")
		case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
			apiError(c, http.StatusConflict, "a weigh-in already exists for that date")
		default:
			apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		}
		return
	}

	profile, calc, err := syncProfileWeight(c, tx, userID, entry.Date.Format("2006-01-02"), entry.WeightKG)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile weight")
		return
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("[updateWeightEntry] commit failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		return
	}

	if calc != nil {
		logAdvisories("updateWeightEntry", userID, calc.Advisories)
	}
	if profile != nil {
		populateComputedPlan(profile)
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry, "profile": profile})
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match. The
// profile weight is left as is.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
