package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	"github.com/stretchr/testify/require"
)

func roleRequest(role enums.UserRole) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(WithRole(req.Context(), role))
	}
	return req
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole(t *testing.T) {
	var called bool
	handler := RequireRole(enums.UserRoleFarmer, nil)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, roleRequest(enums.UserRoleFarmer))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	called = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, roleRequest(enums.UserRoleBuyer))
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	var called bool
	handler := RequireAnyRole(nil, enums.UserRoleFarmer, enums.UserRoleBuyer)(okHandler(&called))

	for _, role := range []enums.UserRole{enums.UserRoleFarmer, enums.UserRoleBuyer} {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, roleRequest(role))
		require.True(t, called, "role %s should pass", role)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	called = false
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, roleRequest(enums.UserRoleAdmin))
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)

	called = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, roleRequest(""))
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
