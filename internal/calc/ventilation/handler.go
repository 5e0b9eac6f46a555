package ventilation

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Ducts *DuctSizer
}

// AirChanges appends the room to the results table carried in the request.
func (h *Handler) AirChanges(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RoomInput
		Results Results `json:"results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := AirChanges(input.RoomInput)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	results := input.Results
	if input.Mode != ModeOccupancy {
		results = results.Append(res)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		RoomResult
		Results Results `json:"results"`
	}{res, results})
}

func (h *Handler) Duct(w http.ResponseWriter, r *http.Request) {
	var input DuctInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Ducts.Calculate(input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Louvre(w http.ResponseWriter, r *http.Request) {
	var input LouvreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Louvre(input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
