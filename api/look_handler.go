package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/utils"
)

// LooksResponse represents the paginated looks listing
type LooksResponse struct {
	Looks       []models.Look `json:"looks"`
	Total       int           `json:"total"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
}

// VariationRequest carries an image reference for variation operations.
type VariationRequest struct {
	Image string `json:"image"`
}

// EditRequest carries a free-form edit instruction for a look's primary image.
type EditRequest struct {
	Instruction string `json:"instruction"`
	GuideImage  string `json:"guide_image,omitempty"`
}

func (a *API) presignLook(r *http.Request, l models.Look) models.Look {
	if url, err := utils.GetPresignedURL(r.Context(), l.FinalImage); err == nil {
		l.FinalImage = url
	}
	if url, err := utils.GetPresignedURL(r.Context(), l.ModelImage); err == nil {
		l.ModelImage = url
	}
	l.Variations = utils.PresignImageURLs(r.Context(), l.Variations)
	return l
}

// ListLooksHandler returns the caller's looks, newest first, paginated.
func (a *API) ListLooksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	all, err := a.Store.GetAllLooks(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch looks", statusForError(err))
		return
	}

	mine := make([]models.Look, 0, len(all))
	for _, l := range all {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}
	// The store does not guarantee order; show latest first.
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	total := len(mine)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pageLooks := make([]models.Look, 0, end-start)
	for _, l := range mine[start:end] {
		pageLooks = append(pageLooks, a.presignLook(r, l))
	}

	utils.RespondJSON(w, http.StatusOK, LooksResponse{
		Looks:       pageLooks,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	})
}

func (a *API) lookFromPath(w http.ResponseWriter, r *http.Request) (models.Look, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return models.Look{}, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.RespondError(w, nil, "Invalid look id", http.StatusBadRequest)
		return models.Look{}, false
	}
	look, err := a.Store.GetLook(r.Context(), id)
	if err != nil || look.UserID != userID {
		utils.RespondError(w, nil, "Look not found", http.StatusNotFound)
		return models.Look{}, false
	}
	return look, true
}

// DeleteLookHandler deletes a look and strips it from every board
// referencing it.
func (a *API) DeleteLookHandler(w http.ResponseWriter, r *http.Request) {
	look, ok := a.lookFromPath(w, r)
	if !ok {
		return
	}
	if err := a.Manager.DeleteLook(r.Context(), look.ID); err != nil {
		utils.RespondError(w, nil, fmt.Sprintf("Failed to delete look: %v", err), statusForError(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Look deleted"})
}

// AddVariationHandler appends an alternate image to the look.
func (a *API) AddVariationHandler(w http.ResponseWriter, r *http.Request) {
	look, ok := a.lookFromPath(w, r)
	if !ok {
		return
	}

	var req VariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		utils.RespondError(w, nil, "image is required", http.StatusBadRequest)
		return
	}

	updated, err := a.Manager.AddVariation(r.Context(), look.ID, req.Image)
	if err != nil {
		utils.RespondError(w, nil, fmt.Sprintf("Failed to add variation: %v", err), statusForError(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"look": a.presignLook(r, updated)})
}

// PromoteVariationHandler makes a variation the look's primary image.
func (a *API) PromoteVariationHandler(w http.ResponseWriter, r *http.Request) {
	look, ok := a.lookFromPath(w, r)
	if !ok {
		return
	}

	var req VariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		utils.RespondError(w, nil, "image is required", http.StatusBadRequest)
		return
	}

	updated, err := a.Manager.PromoteVariation(r.Context(), look.ID, req.Image)
	if err != nil {
		utils.RespondError(w, nil, fmt.Sprintf("Failed to promote variation: %v", err), statusForError(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"look": a.presignLook(r, updated)})
}

// EditLookHandler applies a free-form instruction to the look's primary
// image via the gateway and records the result as a new variation.
func (a *API) EditLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Edit Look API]")

	look, ok := a.lookFromPath(w, r)
	if !ok {
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Instruction == "" {
		utils.RespondError(w, &logMessageBuilder, "instruction is required", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Editing look %d: %s", look.ID, req.Instruction))

	image, err := a.Gateway.Edit(r.Context(), look.FinalImage, req.Instruction, req.GuideImage)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Edit failed: %v", err), statusForError(err))
		return
	}

	updated, err := a.Manager.AddVariation(r.Context(), look.ID, image)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to record variation: %v", err), statusForError(err))
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Edit stored as variation")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"look": a.presignLook(r, updated)})
}
