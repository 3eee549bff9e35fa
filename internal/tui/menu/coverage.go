package menu

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// coverage renders the share of samples that reference labelable media.
type coverage struct {
	bar progress.Model
}

func newCoverage() coverage {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 24
	return coverage{bar: bar}
}

// View renders the bar for snap. An empty dataset renders nothing.
func (c coverage) View(snap dataset.Snapshot) string {
	total := snap.Len()
	if total == 0 {
		return ""
	}
	withMedia := 0
	for i := 0; i < total; i++ {
		if snap.Sample(i).HasMedia() {
			withMedia++
		}
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("media %d/%d", withMedia, total))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", c.bar.ViewAs(float64(withMedia)/float64(total)))
}
