// Package admin exposes operator-only diagnostics.
package admin

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"chi-backend/internal/database"
	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var dbService database.Service

func InitAdminPackage(svc database.Service) {
	dbService = svc
}

// GetSystemStatsHandler reports host and process health for operators.
// Guarded by a static key header rather than a user session because it is
// called by monitoring, not by the app.
func GetSystemStatsHandler(c echo.Context) error {
	adminKey := os.Getenv("ADMIN_KEY")
	if adminKey == "" || c.Request().Header.Get("X-Admin-Key") != adminKey {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	stats := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"num_cpu":    runtime.NumCPU(),
		"database":   dbService.Health(),
	}

	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		stats["cpu_percent"] = percent[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["mem_used_percent"] = vm.UsedPercent
		stats["mem_total_mb"] = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		stats["disk_used_percent"] = du.UsedPercent
	}
	if info, err := host.Info(); err == nil {
		stats["uptime_sec"] = info.Uptime
		stats["os"] = info.OS
		stats["platform"] = info.Platform
	}

	return c.JSON(http.StatusOK, stats)
}
