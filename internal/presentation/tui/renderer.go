package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/wirekit/wire/pkg/domain"
)

// Renderer pretty-prints merged props as a terminal status panel:
// resolved values in green, pending properties in yellow, rejections in
// red.
type Renderer struct {
	profile termenv.Profile
}

func NewRenderer() *Renderer {
	return &Renderer{profile: termenv.ColorProfile()}
}

// Render formats one snapshot of merged props.
func (r *Renderer) Render(props domain.Props) string {
	pending, _ := props[domain.PropPending].(map[string]bool)
	rejected, _ := props[domain.PropRejected].(map[string]error)

	names := make([]string, 0, len(props))
	for name := range props {
		switch name {
		case domain.PropPending, domain.PropRejected, domain.PropRefresh:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		line := fmt.Sprintf("  %-12s %v", name, props[name])
		switch {
		case rejected[name] != nil:
			// A rejection can coexist with a stale cached value.
			b.WriteString(r.paint(line, "#fb7185"))
			b.WriteString(r.paint(fmt.Sprintf("   (error: %v)", rejected[name]), "#fb7185"))
		case pending[name]:
			b.WriteString(r.paint(line+"  ...", "#fbbf24"))
		default:
			b.WriteString(r.paint(line, "#34d399"))
		}
		b.WriteByte('\n')
	}

	for name := range pending {
		if _, shown := props[name]; !shown {
			b.WriteString(r.paint(fmt.Sprintf("  %-12s (loading)", name), "#fbbf24"))
			b.WriteByte('\n')
		}
	}
	for name, err := range rejected {
		if _, shown := props[name]; !shown {
			b.WriteString(r.paint(fmt.Sprintf("  %-12s (error: %v)", name, err), "#fb7185"))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func (r *Renderer) paint(s, hex string) string {
	return termenv.String(s).Foreground(r.profile.Color(hex)).String()
}
