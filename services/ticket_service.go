package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	qrcode "github.com/skip2/go-qrcode"

	"payper-storefront/internal/status"
)

// qrImageSize is the rendered PNG edge in pixels.
const qrImageSize = 512

// TicketService renders order redemption codes as QR images.
type TicketService struct {
	app core.App
}

func NewTicketService(app core.App) *TicketService {
	return &TicketService{app: app}
}

// OrderQR renders the redemption code of the order as a PNG. Only the
// purchaser may fetch it.
func (s *TicketService) OrderQR(ctx context.Context, orderID, userID string) (png []byte, filename string, err error) {
	record, err := s.app.FindRecordById("orders", orderID)
	if err != nil {
		return nil, "", status.ErrOrderNotFound
	}

	if record.GetString("user_id") != userID {
		return nil, "", &status.AuthError{Reason: "order does not belong to user"}
	}

	code := record.GetString("qr_code")
	if code == "" {
		return nil, "", fmt.Errorf("orderQR: order %s has no redemption code", orderID)
	}

	png, err = qrcode.Encode(code, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, "", fmt.Errorf("orderQR: encode: %w", err)
	}

	filename = fmt.Sprintf("ticket-%s.png", record.GetString("order_number"))
	return png, filename, nil
}
