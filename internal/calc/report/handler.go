package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"Plantroom/internal/auth"
	"Plantroom/internal/calc/heating"

	log "github.com/sirupsen/logrus"
)

type Input struct {
	heating.Input
	Notes string `json:"notes"`
}

type Handler struct{}

// Calorifier recalculates the posted calorifier inputs and returns the
// result sheet as a PDF attachment.
func (h *Handler) Calorifier(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := heating.Calculate(input.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	err = WriteCalorifier(&buf, Calorifier{
		Input:     input.Input,
		Result:    res,
		Notes:     input.Notes,
		Engineer:  auth.Login(r.Context()),
		Generated: time.Now(),
	})
	if err != nil {
		log.WithError(err).Error("calorifier sheet")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"calorifier.pdf\"")
	w.Write(buf.Bytes())
}
