package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
)

const signatureHeader = "Signature"

// PayChanguService reconciles provider callbacks against order state.
type PayChanguService interface {
	HandleEvent(ctx context.Context, event paychangu.WebhookEvent) (*paychangu.Outcome, error)
}

type webhookPayload struct {
	Status string `json:"status"`
	Data   struct {
		TxRef string `json:"tx_ref"`
	} `json:"data"`
}

// providerResponse is the acknowledgement shape the provider expects. This
// endpoint deliberately does not use the standard API envelope.
type providerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PayChanguWebhook consumes the provider's server-to-server payment
// callback. It is the only path that flips an order's payment state.
func PayChanguWebhook(svc PayChanguService, cfg config.PayChanguConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			writeProviderError(w, http.StatusInternalServerError, "webhook service unavailable")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeProviderError(w, http.StatusBadRequest, "unreadable request body")
			return
		}

		if !paychangu.VerifySignature(cfg.WebhookSecret, body, r.Header.Get(signatureHeader)) {
			if logg != nil {
				logg.Warn(ctx, "webhook signature rejected")
			}
			writeProviderError(w, http.StatusBadRequest, "invalid signature")
			return
		}

		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			writeProviderError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if payload.Data.TxRef == "" {
			writeProviderError(w, http.StatusBadRequest, "missing transaction reference")
			return
		}

		outcome, err := svc.HandleEvent(ctx, paychangu.WebhookEvent{
			TxRef:  payload.Data.TxRef,
			Status: payload.Status,
		})
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "webhook reconciliation failed", err)
			}
			status := http.StatusBadRequest
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
				status = http.StatusServiceUnavailable
			}
			writeProviderError(w, status, "could not process webhook")
			return
		}

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"order_id":  outcome.OrderID,
				"paid":      outcome.Paid,
				"duplicate": outcome.Duplicate,
			})
			logg.Info(ctx, "webhook acknowledged")
		}
		writeProviderJSON(w, http.StatusOK, providerResponse{Status: "success"})
	}
}

func writeProviderError(w http.ResponseWriter, status int, message string) {
	writeProviderJSON(w, status, providerResponse{Status: "error", Message: message})
}

func writeProviderJSON(w http.ResponseWriter, status int, payload providerResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
