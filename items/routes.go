package items

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/drblury/itemapi/store"
)

// GetRoot returns the API name with the current date and time. It doubles as
// a lightweight liveness check.
func (h *ItemHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	datetime := time.Now().UTC().Format(time.RFC3339)
	h.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s %s", h.apiName, datetime),
	})
}

// GetItem looks up a single item by the name query parameter.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		h.HandleBadRequestError(w, r, fmt.Errorf("query parameter name is required"))
		return
	}

	item, ok := h.store.Get(name)
	if !ok {
		h.HandleNotFoundError(w, r, fmt.Errorf("%w: %s", store.ErrNotFound, name))
		return
	}
	h.RespondWithJSON(w, r, http.StatusOK, item)
}

// ListItems returns all stored names sorted alphabetically with their count.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	names := h.store.Names()
	h.RespondWithJSON(w, r, http.StatusOK, ItemListResponse{
		NumItems: len(names),
		Names:    names,
	})
}

// CreateItem validates the request payload and inserts a new item. A taken
// name or id yields a conflict; the original item is never overwritten.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var payload CreateItem
	if !h.ReadRequestBody(w, r, &payload) {
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		h.HandleErrors(w, r, ErrEmptyName)
		return
	}

	var (
		item store.Item
		err  error
	)
	if payload.ID != nil {
		item = store.Item{ID: *payload.ID, Name: payload.Name}
		err = h.store.Insert(item)
	} else {
		item, err = h.store.InsertNew(payload.Name)
	}
	if err != nil {
		h.HandleErrors(w, r, fmt.Errorf("%w: %s", err, payload.Name))
		return
	}

	h.Logger().Debug("Create item", "name", item.Name, "id", item.ID)
	h.RespondWithJSON(w, r, http.StatusCreated, item)
}

// RemoveItem deletes the item named by the path parameter and returns it.
func (h *ItemHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	item, err := h.store.Remove(name)
	if err != nil {
		h.HandleErrors(w, r, fmt.Errorf("%w: %s", err, name))
		return
	}

	h.Logger().Debug("Remove item", "name", item.Name, "id", item.ID)
	h.RespondWithJSON(w, r, http.StatusOK, item)
}

// ClearItems deletes every stored item and reports how many were removed.
func (h *ItemHandler) ClearItems(w http.ResponseWriter, r *http.Request) {
	removed := h.store.Clear()
	h.Logger().Debug("Delete all items", "removed", removed)
	h.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Removed %d items", removed),
	})
}
