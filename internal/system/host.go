package system

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo is the machine summary written next to every benchmark entry.
type HostInfo struct {
	LogicalCPUs int
	CPUModel    string
	TotalMemory uint64
	UsedPercent float64
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s x%d | RAM %.1f GiB (%.0f%% used)",
		h.CPUModel, h.LogicalCPUs, float64(h.TotalMemory)/(1<<30), h.UsedPercent)
}

// Host collects HostInfo. Any probe that fails leaves its field at a
// runtime-derived fallback.
func Host(ctx context.Context) HostInfo {
	h := HostInfo{LogicalCPUs: runtime.NumCPU(), CPUModel: runtime.GOARCH}

	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		h.LogicalCPUs = n
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		h.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.TotalMemory = vm.Total
		h.UsedPercent = vm.UsedPercent
	}
	return h
}

// DefaultWorkers is the render parallelism used when none is configured.
func DefaultWorkers(ctx context.Context) int {
	return max(1, Host(ctx).LogicalCPUs)
}
