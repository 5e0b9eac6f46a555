package expansion

import (
	"encoding/json"
	"net/http"

	"Plantroom/internal/refdata"
)

type Handler struct {
	Ref *refdata.Set
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Input
		Results Results `json:"results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(h.Ref.Expansion, input.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Result
		Results Results `json:"results"`
	}{res, input.Results.Append(input.Input, res)})
}
