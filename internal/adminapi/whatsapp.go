package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/webserver"
	"github.com/maosdefada/loja/internal/whatsapp"
	"go.uber.org/zap"
)

func registerWhatsAppRoutes() {
	webserver.ApiGET("/whatsapp/status", getWhatsAppStatus)
	webserver.ApiGET("/whatsapp/qr", getWhatsAppQR)
	webserver.ApiPOST("/whatsapp/connect", postWhatsAppConnect)
	webserver.ApiPOST("/whatsapp/send", postWhatsAppSend)
}

// getWhatsAppStatus reports whether the notification service is running.
func getWhatsAppStatus(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return ok(c, map[string]interface{}{"initialized": false})
	}
	return ok(c, map[string]interface{}{
		"initialized": true,
		"connected":   svc.Connected(),
	})
}

// getWhatsAppQR returns the latest pairing QR code string (if any). The
// admin page renders the QR client-side from this value.
func getWhatsAppQR(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "Serviço WhatsApp não inicializado", nil)
	}
	code := svc.GetQRCode()
	return ok(c, map[string]interface{}{"code": code, "has_qr": code != ""})
}

// postWhatsAppConnect triggers a connect attempt in the background, which
// causes a fresh QR to be emitted when the device is not paired yet.
func postWhatsAppConnect(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "Serviço WhatsApp não inicializado", nil)
	}
	svc.ConnectAsync()
	zap.L().Info("adminapi: triggered whatsapp connect")
	return ok(c, map[string]interface{}{"started": true})
}

// postWhatsAppSend sends a test message to verify the paired device works.
func postWhatsAppSend(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "Serviço WhatsApp não inicializado", nil)
	}

	var payload struct {
		Jid  string `json:"jid" form:"jid"`
		Text string `json:"text" form:"text"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Dados inválidos", err.Error())
	}
	if payload.Jid == "" || payload.Text == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "jid e text são obrigatórios", nil)
	}
	if err := svc.SendText(c.Request().Context(), payload.Jid, payload.Text); err != nil {
		return fail(c, http.StatusInternalServerError, "SEND_FAILED", "Falha ao enviar mensagem", err.Error())
	}
	return ok(c, map[string]interface{}{"sent": true})
}
