package units

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Conv *Converter
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Conv.Calculate(input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Units lists the selectable units for both converters.
func (h *Handler) Units(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{
		KindAirflow: h.Conv.AirflowUnits(),
		KindEnergy:  h.Conv.HeatingUnits(),
	})
}
