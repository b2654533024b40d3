package controllers

import (
	"net/http"

	"github.com/agrilinkmw/agrilink-backend/api/responses"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/db"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	pkgredis "github.com/agrilinkmw/agrilink-backend/pkg/redis"
)

type healthStatus struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Redis  string `json:"redis"`
}

// Health reports process liveness plus dependency reachability.
func Health(dbPinger db.Pinger, redisPinger pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", DB: "ok", Redis: "ok"}
		healthy := true

		if dbPinger == nil {
			status.DB = "not configured"
			healthy = false
		} else if err := dbPinger.Ping(r.Context()); err != nil {
			status.DB = "unreachable"
			healthy = false
		}

		if redisPinger == nil {
			status.Redis = "not configured"
			healthy = false
		} else if err := redisPinger.Ping(r.Context()); err != nil {
			status.Redis = "unreachable"
			healthy = false
		}

		if !healthy {
			status.Status = "degraded"
			if logg != nil {
				logg.Warn(r.Context(), "health check degraded")
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "service degraded").WithDetails(map[string]any{
				"db":    status.DB,
				"redis": status.Redis,
			}))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
