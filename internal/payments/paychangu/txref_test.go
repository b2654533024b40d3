package paychangu

import (
	"testing"

	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTxRefRoundTrip(t *testing.T) {
	ref := TxRef("agri", 42)
	require.Equal(t, "agri_order_42", ref)

	id, err := ParseTxRef("agri", ref)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestParseTxRefRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"agri_order_",
		"agri_order_abc",
		"agri_order_0",
		"agri_order_-5",
		"other_order_42",
		"agri_order_42extra",
	}
	for _, raw := range cases {
		_, err := ParseTxRef("agri", raw)
		require.Error(t, err, "reference %q", raw)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "reference %q", raw)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestParseTxRefTrimsWhitespace(t *testing.T) {
	id, err := ParseTxRef("agri", "  agri_order_7 ")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
}
