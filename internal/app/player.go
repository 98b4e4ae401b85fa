package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/voicevista/voicevista/internal/ui"
)

const skipStep = 10 * time.Second

// player tracks playback position for the result page. It holds no audio
// backend; position advances on PlayerTickMsg while playing.
type player struct {
	playing  bool
	position time.Duration
	duration time.Duration
	gen      int
}

func newPlayer(duration string) player {
	d, _ := parseClock(duration)
	return player{duration: d}
}

func (p *player) toggle() {
	if !p.playing && p.duration > 0 && p.position >= p.duration {
		p.position = 0
	}
	p.playing = !p.playing
	p.gen++
}

func (p *player) skip(delta time.Duration) {
	p.position += delta
	if p.position < 0 {
		p.position = 0
	}
	if p.duration > 0 && p.position > p.duration {
		p.position = p.duration
	}
}

// seek moves to a fraction of the duration.
func (p *player) seek(fraction float64) {
	if p.duration <= 0 {
		return
	}
	fraction = min(max(fraction, 0), 1)
	p.position = time.Duration(fraction * float64(p.duration))
}

// tick advances one second and reports whether playback continues.
func (p *player) tick() bool {
	if !p.playing {
		return false
	}
	p.position += time.Second
	if p.duration > 0 && p.position >= p.duration {
		p.position = p.duration
		p.playing = false
		return false
	}
	return true
}

func (p player) view(s ui.Styles, width int) string {
	icon := "▶"
	if p.playing {
		icon = "❚❚"
	}
	total := "--:--"
	if p.duration > 0 {
		total = formatClock(p.duration)
	}

	barWidth := max(10, width-24)
	filled := 0
	if p.duration > 0 {
		filled = int(float64(barWidth) * float64(p.position) / float64(p.duration))
	}
	bar := s.Selected.Render(strings.Repeat("█", filled)) + s.Dim.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s %s %s / %s", s.ThemeToggle.Render(icon), bar, formatClock(p.position), total)
}

// formatClock renders m:ss.
func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// parseClock reads "m:ss", "h:mm:ss", or a number of seconds.
func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, false
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), true
}
