package httpapi

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// MemoryMetrics returns a point-in-time snapshot of process memory usage.
// Read-only and unauthenticated; it exposes no tenant data.
func MemoryMetrics(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	const mb = 1024 * 1024
	c.JSON(http.StatusOK, gin.H{
		"heap_alloc_mb":  float64(ms.HeapAlloc) / mb,
		"heap_sys_mb":    float64(ms.HeapSys) / mb,
		"total_alloc_mb": float64(ms.TotalAlloc) / mb,
		"sys_mb":         float64(ms.Sys) / mb,
		"num_gc":         ms.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	})
}
