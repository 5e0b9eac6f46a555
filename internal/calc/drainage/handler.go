package drainage

import (
	"bytes"
	"encoding/json"
	"net/http"

	"Plantroom/internal/refdata"

	log "github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Ref *refdata.Set
}

func (h *Handler) Stack(w http.ResponseWriter, r *http.Request) {
	var input StackInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := SizeStack(h.Ref, input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) Gradient(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FallMM float64 `json:"fall_mm"`
		RunMM  float64 `json:"run_mm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Gradient(input.FallMM, input.RunMM)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, res)
}

type PipeRunResult struct {
	Run          PipeRun `json:"run"`
	TotalLengthM float64 `json:"total_length_m"`
	TotalVolume  float64 `json:"total_volume_m3"`
}

func newPipeRunResult(run PipeRun) PipeRunResult {
	l, v := run.Totals()
	return PipeRunResult{Run: run, TotalLengthM: l, TotalVolume: v}
}

// PipeVolume adds one pipe to the run carried in the request.
func (h *Handler) PipeVolume(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PipeInput
		Run PipeRun `json:"run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := NewPipe(h.Ref, input.PipeInput)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, newPipeRunResult(input.Run.Add(p)))
}

func (h *Handler) ImportPipeRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	run, err := ReadPipeRun(file)
	if err != nil {
		log.WithError(err).Warn("pipe volume import rejected")
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, newPipeRunResult(run))
}

func (h *Handler) ExportPipeRun(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Run PipeRun `json:"run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := WritePipeRun(&buf, input.Run); err != nil {
		log.WithError(err).Error("pipe volume export failed")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"pipe_data.xlsx\"")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
