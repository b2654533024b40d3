package paychangu

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
)

const txRefInfix = "_order_"

// TxRef builds the provider transaction reference embedding the order id.
func TxRef(prefix string, orderID int64) string {
	return fmt.Sprintf("%s%s%d", prefix, txRefInfix, orderID)
}

// ParseTxRef extracts the order id from a transaction reference. A reference
// that does not match "<prefix>_order_<int>" is a validation error; the
// caller must not mutate anything on that path.
func ParseTxRef(prefix, raw string) (int64, error) {
	ref := strings.TrimSpace(raw)
	want := prefix + txRefInfix
	if !strings.HasPrefix(ref, want) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "malformed transaction reference")
	}
	id, err := strconv.ParseInt(ref[len(want):], 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "malformed transaction reference")
	}
	return id, nil
}
