package paychangu

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"status":"success","data":{"tx_ref":"agri_order_1"}}`)

	require.True(t, VerifySignature("topsecret", body, sign("topsecret", body)))
	require.False(t, VerifySignature("topsecret", body, sign("wrong", body)))
	require.False(t, VerifySignature("topsecret", body, ""))
	require.False(t, VerifySignature("topsecret", []byte("tampered"), sign("topsecret", body)))
}

func TestVerifySignatureDisabledWithoutSecret(t *testing.T) {
	require.True(t, VerifySignature("", []byte("anything"), "whatever"))
}
