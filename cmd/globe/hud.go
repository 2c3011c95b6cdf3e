package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/globe/internal/config"
	"github.com/taigrr/globe/pkg/render"
)

const flashDuration = 2 * time.Second

// viewerTheme holds the colours resolved from the config theme.
type viewerTheme struct {
	globe render.Shader
	stars []color.Color
}

func newViewerTheme(t config.ThemeConfig, pal *render.Palette) viewerTheme {
	night := render.ParseHex(t.GlobeNight, color.RGBA{40, 50, 75, 255})
	day := render.ParseHex(t.GlobeDay, color.White)

	stars := make([]color.Color, 0, len(t.Stars))
	for _, s := range t.Stars {
		stars = append(stars, render.ParseHex(s, color.White))
	}
	return viewerTheme{
		globe: render.GradientShader(pal, night, day),
		stars: stars,
	}
}

// hud renders the settings panel and transient status messages.
type hud struct {
	box    lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	hint   lipgloss.Style
	status lipgloss.Style

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	flash      string
	flashUntil time.Time
}

func newHUD(t config.ThemeConfig) *hud {
	primary := lipgloss.Color(t.TextPrimary)
	secondary := lipgloss.Color(t.TextSecondary)
	accent := lipgloss.Color(t.TextAccent)

	return &hud{
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		label:   lipgloss.NewStyle().Foreground(secondary),
		value:   lipgloss.NewStyle().Foreground(primary).Bold(true),
		hint:    lipgloss.NewStyle().Foreground(secondary).Faint(true),
		status:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		fpsTime: time.Now(),
	}
}

// Tick updates the FPS counter; call once per frame.
func (h *hud) Tick(now time.Time) {
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// Flash shows msg in the status line for a couple of seconds.
func (h *hud) Flash(msg string) {
	h.flash = msg
	h.flashUntil = time.Now().Add(flashDuration)
}

// Panel returns the settings panel for v.
func (h *hud) Panel(v *viewer) string {
	on := "off"
	if v.lighting {
		on = "on"
	}
	row := func(name, val string) string {
		return h.label.Render(fmt.Sprintf("%-9s", name)) + h.value.Render(val)
	}

	lines := []string{
		row("scale", fmt.Sprintf("%.2f", v.scale.Target)),
		row("speed", fmt.Sprintf("%.2fx", v.speed.Target)),
		row("tilt", fmt.Sprintf("%.1f°", v.tilt.Target)),
		row("lighting", on),
		row("fps", fmt.Sprintf("%.0f", h.fps)),
		"",
		h.hint.Render("+/- scale  [/] speed"),
		h.hint.Render("t/T tilt   l light"),
		h.hint.Render("s save  r reset  q quit"),
	}
	return h.box.Render(strings.Join(lines, "\n"))
}

// Draw paints the panel (when enabled) and any live status message.
func (h *hud) Draw(scr uv.Screen, v *viewer) {
	area := scr.Bounds()

	if v.showHUD {
		panel := h.Panel(v)
		w, ht := lipgloss.Width(panel), lipgloss.Height(panel)
		uv.NewStyledString(panel).Draw(scr, uv.Rect(area.Min.X+1, area.Min.Y, w, ht).Intersect(area))
	}

	if h.flash != "" && time.Now().Before(h.flashUntil) {
		msg := h.status.Render(" " + h.flash + " ")
		w := lipgloss.Width(msg)
		y := area.Max.Y - 1
		uv.NewStyledString(msg).Draw(scr, uv.Rect(area.Min.X+1, y, w, 1).Intersect(area))
	}
}
