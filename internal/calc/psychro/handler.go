package psychro

import (
	"encoding/json"
	"net/http"
)

type Handler struct{}

// Point adds a chart point to the list carried in the request.
func (h *Handler) Point(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Input
		Points Points `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	points, err := input.Points.Add(input.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Points Points `json:"points"`
	}{points})
}
