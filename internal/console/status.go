package console

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Status is a point-in-time snapshot the "status" console command and the
// read-only REST /status endpoint both report.
type Status struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Tick             uint64  `json:"tick"`
	ConnectedPlayers int     `json:"connected_players"`
	MaxPlayers       int     `json:"max_players"`
	MemoryAllocMB    float64 `json:"memory_alloc_mb"`
	ProcessCPUPct    float64 `json:"process_cpu_percent"`
	SystemCPUPct     float64 `json:"system_cpu_percent"`
	Goroutines       int     `json:"goroutines"`
}

// Reporter supplies the live counters Collect needs; internal/net.Server
// and internal/scheduler.Scheduler satisfy the player-count/tick half of
// this, so callers typically build a small adapter closure.
type Reporter struct {
	StartTime  time.Time
	Tick       func() uint64
	Players    func() int
	MaxPlayers int
}

// Collect samples process/host metrics via gopsutil plus the live counters
// in r. gopsutil failures degrade the affected field to zero rather than
// failing the whole snapshot — an operator checking status during a
// platform hiccup still wants the counters that did resolve.
func Collect(r Reporter) Status {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Status{
		UptimeSeconds: time.Since(r.StartTime).Seconds(),
		MemoryAllocMB: float64(mem.Alloc) / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		MaxPlayers:    r.MaxPlayers,
	}
	if r.Tick != nil {
		s.Tick = r.Tick()
	}
	if r.Players != nil {
		s.ConnectedPlayers = r.Players()
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if pct, err := proc.CPUPercent(); err == nil {
			s.ProcessCPUPct = pct
		}
	}
	if pct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pct) > 0 {
		s.SystemCPUPct = pct[0]
	}
	return s
}

// String renders a Status as the operator console's "status" output.
func (s Status) String() string {
	return fmt.Sprintf(
		"uptime=%s tick=%d players=%d/%d mem=%.1fMB cpu(proc)=%.1f%% cpu(sys)=%.1f%% goroutines=%d",
		time.Duration(s.UptimeSeconds*float64(time.Second)).Round(time.Second),
		s.Tick, s.ConnectedPlayers, s.MaxPlayers, s.MemoryAllocMB, s.ProcessCPUPct, s.SystemCPUPct, s.Goroutines,
	)
}
