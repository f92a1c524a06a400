package handler

import "net/http"

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	adminID, err := pathID(r, "adminId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.notifications.ListUnread(r.Context(), id, adminID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	notificationID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.notifications.MarkRead(r.Context(), id, notificationID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
