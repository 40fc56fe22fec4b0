package graphviz

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiviz/pkg/observability"
)

// marker is the token dot prints when asked for its version. Older releases
// write "Graphviz", newer ones "graphviz", so it is matched case-insensitively.
const marker = "graphviz"

// Availability is the outcome of a renderer probe.
type Availability struct {
	// Available reports whether the renderer ran and identified itself.
	Available bool

	// Executable and Dir are the resolved location that was probed.
	Executable string
	Dir        string

	// Version is the first output line that identified the renderer.
	Version string
}

// Prober checks whether a usable renderer is installed.
// The zero value probes the default [Locator] and logs nothing.
type Prober struct {
	Locator Locator
	Logger  *log.Logger
}

// IsAvailable reports whether the default renderer is installed and responsive.
func IsAvailable(ctx context.Context) bool {
	var p Prober
	return p.IsAvailable(ctx)
}

// IsAvailable reports whether the renderer is installed and responsive.
// It never returns an error: a renderer that cannot be spawned is simply
// unavailable.
func (p *Prober) IsAvailable(ctx context.Context) bool {
	return p.Probe(ctx).Available
}

// Probe runs "<executable> -V" and scans its merged output for the renderer's
// self-identification.
func (p *Prober) Probe(ctx context.Context) Availability {
	start := time.Now()
	logger := orDiscard(p.Logger)

	loc := p.Locator.Resolve()
	if loc.Dir != "" {
		logger.Debug("Graphviz home", "dir", loc.Dir)
	}
	logger.Debug("Graphviz executable", "path", loc.Executable)

	res := Availability{Executable: loc.Executable, Dir: loc.Dir}
	defer func() {
		observability.Render().OnProbe(ctx, loc.Executable, res.Available, time.Since(start))
	}()

	if ctx.Err() != nil {
		return res
	}

	proc, err := spawn(loc, "-V")
	if err != nil {
		logger.Debug("Graphviz not runnable", "err", err)
		return res
	}
	defer proc.closePipes()

	stop := proc.terminateOn(ctx, defaultTerminationGrace)
	defer stop()

	// Nothing is sent to the renderer.
	_ = proc.stdin.Close()

	err = drainLines(proc.stdout, func(line string) {
		if res.Version == "" && strings.Contains(strings.ToLower(line), marker) {
			res.Version = strings.TrimSpace(line)
		}
	})
	if err != nil {
		logger.Debug("Reading Graphviz version failed", "err", err)
	}
	// A renderer still writing after a read failure gets EPIPE and exits.
	proc.closePipes()

	if _, err := proc.wait(); err != nil {
		logger.Debug("Waiting for Graphviz failed", "err", err)
	}

	res.Available = res.Version != "" && ctx.Err() == nil
	return res
}
