package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/look-builder/tryon"
	"github.com/raushankrgupta/look-builder/utils"
)

// TryOnRequest starts a new try-on run: a model plus an ordered SKU list.
type TryOnRequest struct {
	ModelID int64    `json:"model_id"`
	SKUs    []string `json:"skus"`
}

// RegenerateRequest re-runs an existing run from the given step index.
type RegenerateRequest struct {
	FromStep int `json:"from_step"`
}

// runResponse is the wire shape of a run; step images are presigned for the
// client, the registry keeps the raw keys.
func (a *API) runResponse(r *http.Request, runID string, run *tryon.Run) map[string]interface{} {
	steps := make([]tryon.Step, len(run.Steps))
	copy(steps, run.Steps)
	for i := range steps {
		if steps[i].InputImage != "" {
			if url, err := utils.GetPresignedURL(r.Context(), steps[i].InputImage); err == nil {
				steps[i].InputImage = url
			}
		}
		if steps[i].OutputImage != "" {
			if url, err := utils.GetPresignedURL(r.Context(), steps[i].OutputImage); err == nil {
				steps[i].OutputImage = url
			}
		}
	}
	return map[string]interface{}{
		"run_id":  runID,
		"savable": run.Savable(),
		"steps":   steps,
	}
}

// StartTryOnHandler resolves the SKU list, snapshots the model and executes
// the generation chain step by step. A mid-chain failure still returns the
// run so the client can regenerate from the failed step; nothing is
// persisted either way.
func (a *API) StartTryOnHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Try-On API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req TryOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ModelID == 0 || len(req.SKUs) == 0 {
		utils.RespondError(w, &logMessageBuilder, "model_id and a non-empty skus list are required", http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Try-On Request: ModelID=%d, SKUs=%s", req.ModelID, strings.Join(req.SKUs, ",")))

	model, err := a.Store.GetModel(r.Context(), req.ModelID)
	if err != nil || model.UserID != userID {
		utils.RespondError(w, &logMessageBuilder, "Model not found", http.StatusNotFound)
		return
	}
	if model.ImageKey == "" {
		utils.RespondError(w, &logMessageBuilder, "Model has no reference image", http.StatusBadRequest)
		return
	}

	// Resolve every SKU before any generation; one unknown SKU aborts the
	// run with zero steps executed.
	products, err := a.Runner.Resolve(r.Context(), req.SKUs)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), statusForError(err))
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Resolved %d products", len(products)))

	run := tryon.NewRun(model, products)
	runID := a.putRun(userID, run)

	execErr := a.Runner.Execute(r.Context(), run)
	if execErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Run halted: %v", execErr))
	} else {
		utils.AddToLogMessage(&logMessageBuilder, "Run completed")
	}

	resp := a.runResponse(r, runID, run)
	if execErr != nil {
		resp["error"] = execErr.Error()
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// RegenerateHandler resets the run from the requested step and re-executes
// the tail of the chain. Steps before the index keep their images untouched.
func (a *API) RegenerateHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Regenerate API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	runID := r.PathValue("run_id")
	run, ok := a.getRun(userID, runID)
	if !ok {
		utils.RespondError(w, &logMessageBuilder, "Run not found", http.StatusNotFound)
		return
	}

	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Regenerating run %s from step %d", runID, req.FromStep))

	execErr := a.Runner.RegenerateFrom(r.Context(), run, req.FromStep)
	if execErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Regeneration halted: %v", execErr))
	}

	resp := a.runResponse(r, runID, run)
	if execErr != nil {
		resp["error"] = execErr.Error()
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// SaveRunHandler condenses a fully completed run into a persisted look and
// drops the run from the registry.
func (a *API) SaveRunHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Save Run API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	runID := r.PathValue("run_id")
	run, ok := a.getRun(userID, runID)
	if !ok {
		utils.RespondError(w, &logMessageBuilder, "Run not found", http.StatusNotFound)
		return
	}

	draft, err := run.BuildLook(userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), statusForError(err))
		return
	}

	look, err := a.Store.AddLook(r.Context(), draft)
	if err != nil {
		// The run stays in the registry so the client can retry the save.
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to save look: %v", err), statusForError(err))
		return
	}
	a.dropRun(runID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved look %d from run %s", look.ID, runID))
	if url, err := utils.GetPresignedURL(r.Context(), look.FinalImage); err == nil {
		look.FinalImage = url
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Look saved",
		"look":    look,
	})
}
