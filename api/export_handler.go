package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/utils"
)

// ExportLooksHandler streams all of the caller's looks as a JSON list,
// oldest first. The output round-trips through ImportLooksHandler.
func (a *API) ExportLooksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	all, err := a.Manager.ExportLooks(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to export looks", statusForError(err))
		return
	}

	mine := make([]models.Look, 0, len(all))
	for _, l := range all {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="looks.json"`)
	utils.RespondJSON(w, http.StatusOK, mine)
}

// ImportLooksHandler ingests an exported look list. Ids are stripped before
// insertion; a record without a primary image or products rejects the whole
// batch and leaves the store unchanged.
func (a *API) ImportLooksHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Import Looks API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var batch []models.Look
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(batch) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Empty import batch", http.StatusBadRequest)
		return
	}

	if err := a.Manager.ImportLooks(r.Context(), userID, batch); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Import rejected: %v", err), statusForError(err))
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Imported %d looks", len(batch)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Import complete",
		"imported": len(batch),
	})
}
