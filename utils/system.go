package utils

import (
	"log/slog"
	"runtime"
)

// MemUsage summarizes heap usage as a log attribute group, sizes in MiB.
func MemUsage() slog.Attr {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const mib = 1 << 20
	return slog.Group("mem",
		"alloc", m.Alloc/mib,
		"totalAlloc", m.TotalAlloc/mib,
		"sys", m.Sys/mib,
		"numGC", m.NumGC)
}
