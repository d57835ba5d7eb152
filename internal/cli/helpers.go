package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubr/internal/capture"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// resolveSessionID picks the session named by id, or the latest one when
// last is set.
func resolveSessionID(db *storage.DB, id string, last bool) (string, error) {
	if !last {
		if id == "" {
			return "", fmt.Errorf("please provide a session ID or use --last")
		}
		return id, nil
	}
	s, err := storage.NewSessionRepository(db).GetLast()
	if err != nil {
		return "", fmt.Errorf("failed to get last session: %w", err)
	}
	if s == nil {
		return "", fmt.Errorf("no sessions found")
	}
	return s.SessionID, nil
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// stickerStyles caches one style per face letter.
var stickerStyles = map[byte]lipgloss.Style{}

// stickerStyle colors a sticker with its face color and picks a text color
// that stays readable on it.
func stickerStyle(letter byte) lipgloss.Style {
	if s, ok := stickerStyles[letter]; ok {
		return s
	}
	bg := capture.ReferenceColor(letter)
	fg := "#000000"
	if l, _, _ := bg.Lab(); l < 0.5 {
		fg = "#ffffff"
	}
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(bg.Hex())).
		Foreground(lipgloss.Color(fg))
	stickerStyles[letter] = s
	return s
}

// renderNet draws a face string as a colored unfolded net: U on top, then
// L F R B, then D.
func renderNet(faceString string) string {
	if len(faceString) != types.FaceletCount {
		return faceString + "\n"
	}
	face := func(f byte) string {
		i := strings.IndexByte(types.FaceOrder, f)
		return faceString[i*9 : i*9+9]
	}
	row := func(b *strings.Builder, f byte, r int) {
		stickers := face(f)
		for c := 0; c < 3; c++ {
			letter := stickers[r*3+c]
			b.WriteString(stickerStyle(letter).Render(" " + string(letter) + " "))
		}
	}

	var b strings.Builder
	pad := strings.Repeat(" ", 9)
	for r := 0; r < 3; r++ {
		b.WriteString(pad)
		row(&b, 'U', r)
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		for _, f := range []byte("LFRB") {
			row(&b, f, r)
		}
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		b.WriteString(pad)
		row(&b, 'D', r)
		b.WriteByte('\n')
	}
	return b.String()
}
