package handler

import (
	"checkin/internal/export"
	"checkin/internal/service"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// ContactHandler serves vCard downloads
type ContactHandler struct {
	contactSvc *service.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactSvc *service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// DownloadActive handles GET /v1/sessions/active/contacts.vcf
// @Summary Download the active session's contacts once the goal is reached
// @Produce text/vcard
// @Router /sessions/active/contacts.vcf [get]
func (h *ContactHandler) DownloadActive(w http.ResponseWriter, r *http.Request) {
	out, err := h.contactSvc.ExportActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeVCards(w, out)
}

// DownloadSession handles GET /v1/sessions/{id}/contacts.vcf
func (h *ContactHandler) DownloadSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.contactSvc.ExportSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeVCards(w, out)
}

func writeVCards(w http.ResponseWriter, out *service.ContactExport) {
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteVCards(w, out.Contacts); err != nil {
		log.Printf("[export] write %s: %v", out.Filename, err)
	}
}
