package handlers

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type HealthHandler struct {
	db        *sql.DB
	redis     *redis.Client
	log       *logger.Logger
	startTime time.Time
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		log:       log,
		startTime: time.Now().UTC(),
	}
}

type HealthData struct {
	Status        string            `json:"status"`
	Dependencies  map[string]string `json:"dependencies"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Goroutines    int               `json:"goroutines"`
	HeapAllocMB   uint64            `json:"heap_alloc_mb"`
}

func (h *HealthHandler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps := map[string]string{
			"database": "UP",
			"redis":    "UP",
		}
		status := "UP"

		if err := h.db.PingContext(r.Context()); err != nil {
			deps["database"] = "DOWN"
			status = "DEGRADED"
		}
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			deps["redis"] = "DOWN"
			status = "DEGRADED"
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		data := HealthData{
			Status:        status,
			Dependencies:  deps,
			UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
			Goroutines:    runtime.NumGoroutine(),
			HeapAllocMB:   mem.HeapAlloc / 1024 / 1024,
		}

		statusCode := http.StatusOK
		if status != "UP" {
			statusCode = http.StatusServiceUnavailable
		}
		response.WriteJSON(w, statusCode, response.Success(data))
	}
}
