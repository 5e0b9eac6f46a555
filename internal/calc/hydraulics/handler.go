package hydraulics

import (
	"bytes"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Sizer *Sizer
}

type ScheduleRequest struct {
	Entries []Entry `json:"entries"`
}

type ScheduleResult struct {
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

// Calc sizes one pipe. When the request carries a schedule the new entry is
// appended to it and the whole schedule is returned.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Input
		Schedule []Entry `json:"schedule"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Sizer.Calculate(input.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Result
		Schedule []Entry `json:"schedule"`
	}{res, append(input.Schedule, res.Entry)})
}

func (h *Handler) Materials(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Sizer.Ref.Pipes)
}

func (h *Handler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	entries, err := ReadSchedule(file)
	if err != nil {
		log.WithError(err).Warn("pipe schedule import rejected")
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ScheduleResult{Count: len(entries), Entries: entries})
}

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := WriteSchedule(&buf, req.Entries); err != nil {
		log.WithError(err).Error("pipe schedule export failed")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"pipe_data.xlsx\"")
	w.Write(buf.Bytes())
}
