package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/services"
)

type MailHandler struct {
	mailer services.Mailer
}

func NewMailHandler(mailer services.Mailer) *MailHandler {
	return &MailHandler{mailer: mailer}
}

// SendMail - POST /api/mails renders and sends one transactional mail.
func (h *MailHandler) SendMail(e *core.RequestEvent) error {
	var req services.MailRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.mailer.Send(e.Request.Context(), &req); err != nil {
		slog.Error("h.mailer.Send()", "type", req.Type, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": map[string]any{"sent": true}})
}
