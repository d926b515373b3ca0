package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/predict"
)

type application struct {
	predictions *predict.Service
}

// predictRequest mirrors the wire shape callers already use: the profile
// nested under user_profile.
type predictRequest struct {
	UserProfile *predict.Profile `json:"user_profile"`
}

func (app *application) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Career Recommendation API",
		"status":  "online",
	})
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (app *application) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserProfile == nil {
		writeDetail(w, http.StatusBadRequest, "invalid input data: user_profile is required")
		return
	}

	prediction, err := app.predictions.Predict(req.UserProfile)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			writeDetail(w, http.StatusBadRequest, "invalid input data: "+apperr.ClientMessage(err))
			return
		}
		log.Printf("prediction failed: %v", err)
		writeDetail(w, http.StatusInternalServerError, "prediction error")
		return
	}

	log.Printf("prediction complete: %s (%.2f)", prediction.RecommendedCareer, prediction.ConfidenceScore)
	writeJSON(w, http.StatusOK, prediction)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail reports failures in the {detail} shape existing clients of
// the prediction endpoint expect.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
