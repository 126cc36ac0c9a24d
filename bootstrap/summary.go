package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/skillsy/skillsy-api/component"
)

// Summary renders the startup banner: infrastructure, routes and live
// health, all collected from the component registry.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary writing to out, or stdout when out is nil.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display writes the summary for every component in registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var (
		infra  []component.Description
		routes []component.Route
	)
	if registry != nil {
		for _, c := range registry.All() {
			if d, ok := c.(component.Describable); ok {
				infra = append(infra, d.Describe())
			}
			if rp, ok := c.(component.RouteProvider); ok {
				routes = append(routes, rp.Routes()...)
			}
		}
	}

	if len(infra) > 0 {
		b.WriteString("\n📊 Infrastructure\n")
		for i, d := range infra {
			fmt.Fprintf(&b, "   %s %s [%s]: %s\n", branch(i, len(infra)), d.Name, d.Type, d.Details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(&b, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(&b, "   %s %-7s %s → %s\n", branch(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	var health []component.Health
	if registry != nil {
		health = registry.HealthAll(ctx)
	}
	if len(health) == 0 {
		b.WriteString("\n   └── No components registered\n")
	} else {
		healthy := 0
		b.WriteString("\n🏥 Health Check\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(&b, "   %s %s %s: %s%s\n", branch(i, len(health)), healthIcon(h.Status), h.Name, h.Status, msg)
			if h.Status == component.StatusHealthy {
				healthy++
			}
		}
		if healthy == len(health) {
			fmt.Fprintf(&b, "\n✅ All components healthy (%d/%d)\n", healthy, len(health))
		} else {
			fmt.Fprintf(&b, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(health))
		}
	}
	b.WriteString("\n")

	_, _ = io.WriteString(s.out, b.String())
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
