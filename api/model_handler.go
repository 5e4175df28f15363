package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/utils"
)

// CreateModelHandler registers a new model profile. The reference image is
// uploaded as multipart data and stored in S3; the descriptive attributes
// come as form fields. Models are immutable once created.
func (a *API) CreateModelHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Model API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		utils.RespondError(w, &logMessageBuilder, "Name is required", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "A reference image is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("model_images/%d_%s", time.Now().UnixNano(), fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if _, err := utils.UploadFileToS3(r.Context(), file, objectKey, contentType); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to upload image: %v", err), http.StatusInternalServerError)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded reference image %s", objectKey))

	model := models.Model{
		UserID:     userID,
		Name:       name,
		Gender:     r.FormValue("gender"),
		Ethnicity:  r.FormValue("ethnicity"),
		AgeBand:    r.FormValue("age_band"),
		HeightBand: r.FormValue("height_band"),
		SkinTone:   r.FormValue("skin_tone"),
		HairColor:  r.FormValue("hair_color"),
		HairStyle:  r.FormValue("hair_style"),
		BodyShape:  r.FormValue("body_shape"),
		FacialHair: r.FormValue("facial_hair"),
		ImageKey:   objectKey,
		CreatedAt:  time.Now(),
	}

	created, err := a.Store.AddModel(r.Context(), model)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Error saving to database: %v", err), statusForError(err))
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Model created successfully")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Model created successfully",
		"model":   created,
	})
}

// ListModelsHandler returns the caller's models, newest first, with
// presigned image URLs.
func (a *API) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	all, err := a.Store.GetAllModels(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch models", statusForError(err))
		return
	}

	mine := make([]models.Model, 0, len(all))
	for _, m := range all {
		if m.UserID != userID {
			continue
		}
		if url, err := utils.GetPresignedURL(r.Context(), m.ImageKey); err == nil {
			m.ImageKey = url
		}
		mine = append(mine, m)
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"models": mine})
}

// DeleteModelHandler removes a model profile. Looks keep their snapshotted
// starting image, so deleting a model never breaks an existing look.
func (a *API) DeleteModelHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.RespondError(w, nil, "Invalid model id", http.StatusBadRequest)
		return
	}

	model, err := a.Store.GetModel(r.Context(), id)
	if err == nil && model.UserID != userID {
		utils.RespondError(w, nil, "Model not found", http.StatusNotFound)
		return
	}

	if err := a.Store.RemoveModel(r.Context(), id); err != nil {
		utils.RespondError(w, nil, fmt.Sprintf("Failed to delete model: %v", err), statusForError(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Model deleted"})
}
