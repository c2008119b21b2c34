package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	models "docvault/internal/domain/models/docstore"
	docstoreSvc "docvault/internal/domain/services/docstore"
	"docvault/internal/httputil"
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	items  docstoreSvc.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(items docstoreSvc.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		logger: logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *ItemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listItemsResponse carries the page plus the cursor in both inspectable
// and opaque-token form; clients pass the token back via ?cursor=.
type listItemsResponse struct {
	Items           []models.Item  `json:"items"`
	HasMore         bool           `json:"has_more"`
	NextCursor      *models.Cursor `json:"next_cursor"`
	NextCursorToken string         `json:"next_cursor_token,omitempty"`
}

// ListItems lists one page of the caller's items under a parent
// GET /api/items?parent_id=&name=&status=&sort_field=&sort_direction=&limit=&cursor=
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	q := r.URL.Query()
	opts := &models.ListOptions{
		NameContains:  q.Get("name"),
		SortField:     models.SortField(q.Get("sort_field")),
		SortDirection: models.SortDirection(q.Get("sort_direction")),
	}

	if parentID := q.Get("parent_id"); parentID != "" {
		opts.ParentID = &parentID
	}
	if status := q.Get("status"); status != "" {
		s := models.Status(status)
		opts.Status = &s
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}
	if token := q.Get("cursor"); token != "" {
		cursor, err := models.DecodeCursor(token)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "malformed cursor: "+err.Error())
			return
		}
		opts.Cursor = cursor
	}

	result, err := h.items.ListItems(r.Context(), userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := listItemsResponse{
		Items:      result.Items,
		HasMore:    result.HasMore,
		NextCursor: result.NextCursor,
	}
	if result.NextCursor != nil {
		resp.NextCursorToken = result.NextCursor.Encode()
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// GetItem retrieves a single item
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	item, err := h.items.GetItem(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	if item == nil {
		httputil.RespondError(w, http.StatusNotFound, "item not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes an item; for folders, the whole subtree
// DELETE /api/items/{id}
// Always 204 for ids that resolve to nothing - deletion is idempotent.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	// The deletion engine trusts its id, so ownership is settled here
	// first. A missing item (or someone else's) is still a successful
	// no-op from this caller's point of view.
	item, err := h.items.GetItem(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	if item != nil {
		if err := h.items.DeleteItem(r.Context(), id); err != nil {
			handleError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateDocument creates a new file item
// POST /api/documents
func (h *ItemHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req docstoreSvc.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = userID

	item, err := h.items.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// CreateFolder creates a new folder item
// POST /api/folders
func (h *ItemHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req docstoreSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = userID

	item, err := h.items.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateDocument updates a document's extraction status
// PATCH /api/documents/{id}
func (h *ItemHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	// Ownership check before the update; the service trusts the id.
	existing, err := h.items.GetItem(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	if existing == nil {
		httputil.RespondError(w, http.StatusNotFound, "document not found")
		return
	}

	var req docstoreSvc.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}
