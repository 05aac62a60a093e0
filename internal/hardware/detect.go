package hardware

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	probeTimeout = 5 * time.Second
	mebibyte     = 1024 * 1024
	// Apple Silicon shares memory between CPU and GPU; the GPU can use
	// roughly three quarters of it.
	unifiedMemoryShare = 0.75
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Prober runs the platform probes. The zero value is not usable; see
// NewProber.
type Prober struct {
	Run      Runner
	LookPath func(file string) (string, error)
	GOOS     string
}

// NewProber returns a Prober for the current host.
func NewProber() *Prober {
	return &Prober{
		Run:      runCommand,
		LookPath: exec.LookPath,
		GOOS:     runtime.GOOS,
	}
}

// Detect probes the current host.
func Detect(ctx context.Context) (uint64, bool) {
	return NewProber().Detect(ctx)
}

// Detect tries nvidia-smi first, then unified memory on Apple Silicon.
// Intel Macs and every other platform report no capacity.
func (p *Prober) Detect(ctx context.Context) (uint64, bool) {
	if vram, ok := p.nvidia(ctx); ok {
		return vram, true
	}
	if p.GOOS == "darwin" {
		return p.appleSilicon(ctx)
	}
	return 0, false
}

func (p *Prober) nvidia(ctx context.Context) (uint64, bool) {
	if _, err := p.LookPath("nvidia-smi"); err != nil {
		return 0, false
	}
	out, err := p.Run(ctx, "nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		return 0, false
	}
	// one line per GPU; the first one is used
	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	mib, err := strconv.ParseUint(strings.TrimSpace(first), 10, 64)
	if err != nil || mib == 0 {
		return 0, false
	}
	return mib * mebibyte, true
}

func (p *Prober) appleSilicon(ctx context.Context) (uint64, bool) {
	arm, err := p.Run(ctx, "sysctl", "-n", "hw.optional.arm64")
	if err != nil || strings.TrimSpace(arm) != "1" {
		return 0, false
	}
	out, err := p.Run(ctx, "sysctl", "-n", "hw.memsize")
	if err != nil {
		return 0, false
	}
	total, err := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
	if err != nil || total == 0 {
		return 0, false
	}
	return uint64(float64(total) * unifiedMemoryShare), true
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
