package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/raushankrgupta/look-builder/config"
	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/utils"
)

// CreateBoardRequest carries the board metadata and the selected look ids.
type CreateBoardRequest struct {
	Title      string  `json:"title"`
	Note       string  `json:"note"`
	Visibility string  `json:"visibility"`
	LookIDs    []int64 `json:"look_ids"`
}

// ShareBoardRequest carries the recipient of a board share email.
type ShareBoardRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func shareLink(publicID string) string {
	return fmt.Sprintf("%s/share/%s", config.ShareBaseURL, publicID)
}

// CreateBoardHandler creates a lookboard from the selected looks. Board
// creation and share-link issuance are one operation; the response carries
// the public link.
func (a *API) CreateBoardHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Lookboard API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	board, err := a.Manager.CreateLookboard(r.Context(), userID, req.Title, req.Note, req.Visibility, req.LookIDs)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to create lookboard: %v", err), statusForError(err))
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created lookboard %d (%s)", board.ID, board.PublicID))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"lookboard":  board,
		"share_link": shareLink(board.PublicID),
	})
}

// ListBoardsHandler returns the caller's boards, newest first.
func (a *API) ListBoardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	all, err := a.Store.GetAllLookboards(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch lookboards", statusForError(err))
		return
	}

	mine := make([]models.Lookboard, 0, len(all))
	for _, b := range all {
		if b.UserID == userID {
			mine = append(mine, b)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"lookboards": mine})
}

// SharedBoardHandler serves a board by its public id. No auth: this is the
// share view. Private boards are not served here.
func (a *API) SharedBoardHandler(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("public_id")

	board, err := a.Store.GetLookboardByPublicID(r.Context(), publicID)
	if err != nil {
		utils.RespondError(w, nil, "Lookboard not found", http.StatusNotFound)
		return
	}
	if board.Visibility != "public" {
		utils.RespondError(w, nil, "Lookboard not found", http.StatusNotFound)
		return
	}

	boardLooks := make([]models.Look, 0, len(board.LookIDs))
	for _, id := range board.LookIDs {
		look, err := a.Store.GetLook(r.Context(), id)
		if err != nil {
			continue
		}
		boardLooks = append(boardLooks, a.presignLook(r, look))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"lookboard": board,
		"looks":     boardLooks,
	})
}

// DeleteBoardHandler removes the board only; its looks are unaffected.
func (a *API) DeleteBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.RespondError(w, nil, "Invalid lookboard id", http.StatusBadRequest)
		return
	}

	board, err := a.Store.GetLookboard(r.Context(), id)
	if err == nil && board.UserID != userID {
		utils.RespondError(w, nil, "Lookboard not found", http.StatusNotFound)
		return
	}

	if err := a.Manager.DeleteLookboard(r.Context(), id); err != nil {
		utils.RespondError(w, nil, fmt.Sprintf("Failed to delete lookboard: %v", err), statusForError(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Lookboard deleted"})
}

// ShareBoardHandler emails the board's public link to the recipient.
func (a *API) ShareBoardHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Share Lookboard API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid lookboard id", http.StatusBadRequest)
		return
	}

	board, err := a.Store.GetLookboard(r.Context(), id)
	if err != nil || board.UserID != userID {
		utils.RespondError(w, &logMessageBuilder, "Lookboard not found", http.StatusNotFound)
		return
	}

	var req ShareBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "email is required", http.StatusBadRequest)
		return
	}

	link := shareLink(board.PublicID)
	subject := fmt.Sprintf("A lookboard was shared with you: %s", board.Title)
	text := fmt.Sprintf("View the lookboard %q here: %s", board.Title, link)
	html := fmt.Sprintf("<p>View the lookboard <b>%s</b> <a href=%q>here</a>.</p>", board.Title, link)

	if err := utils.SendEmail(req.Name, req.Email, subject, text, html); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to send share email: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Shared lookboard %d with %s", board.ID, req.Email))
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":    "Lookboard shared",
		"share_link": link,
	})
}
