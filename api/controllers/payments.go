package controllers

import (
	"net/http"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/api/responses"
	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
)

type confirmationView struct {
	OrderID        int64  `json:"order_id"`
	ProviderStatus string `json:"provider_status"`
	Message        string `json:"message"`
}

// PaymentConfirmation is the client return URL after hosted checkout. It is
// display-only: the order id is derived for messaging, and payment state is
// never mutated here. Only the webhook confirms payment.
func PaymentConfirmation(cfg config.PayChanguConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txRef := strings.TrimSpace(r.URL.Query().Get("tx_ref"))
		status := strings.TrimSpace(r.URL.Query().Get("status"))

		orderID, err := paychangu.ParseTxRef(cfg.TxRefPrefix, txRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized transaction reference"))
			return
		}

		view := confirmationView{
			OrderID:        orderID,
			ProviderStatus: status,
			Message:        "Thank you. Your payment is being confirmed; the order updates once the provider notifies us.",
		}
		responses.WriteSuccess(w, view)
	}
}
