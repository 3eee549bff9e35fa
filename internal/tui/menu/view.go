package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// View renders the current model state
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var base string
	switch m.viewMode {
	case ViewHelp:
		base = m.renderHelpView()
	default:
		base = m.renderListView()
	}

	if modal, ok := m.renderDialog(); ok {
		return renderModal(base, modal, m.width, m.height)
	}
	return base
}

// renderListView renders the menu of transform buttons
func (m Model) renderListView() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n")

	if m.showError {
		content.WriteString(errorBannerStyle.Render("⚠ " + m.errorMsg))
		content.WriteString("\n")
	}
	if m.notice != "" {
		content.WriteString(infoBannerStyle.Render(m.notice))
		content.WriteString("\n")
	}

	content.WriteString(m.renderButtons())
	content.WriteString("\n")
	content.WriteString(m.renderFooter())

	return content.String()
}

// renderHeader renders the title and a summary of the dataset
func (m Model) renderHeader() string {
	title := titleStyle.Render("Transform Dataset")

	snap := m.page.Dataset()
	name := snap.Name()
	if name == "" {
		name = "untitled"
	}
	env := "web"
	if m.desktop {
		env = "desktop"
	}
	interfaceType := snap.InterfaceType()
	if interfaceType == "" {
		interfaceType = "none"
	}
	summary := fmt.Sprintf("%s  •  %d samples  •  interface: %s  •  %s", name, snap.Len(), interfaceType, env)

	lines := []string{title, summary}
	if bar := m.coverage.View(snap); bar != "" {
		lines = append(lines, bar)
	}
	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderButtons renders built-in actions followed by the plugin section
func (m Model) renderButtons() string {
	if len(m.buttons) == 0 {
		return emptyStateStyle.Render("No transforms available.")
	}

	var items []string
	pluginHeader := false
	for i, b := range m.buttons {
		if b.Action.IsPlugin() && !pluginHeader {
			items = append(items, sectionStyle.Render("Plugins"))
			pluginHeader = true
		}
		items = append(items, m.renderButton(i, b))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderButton renders a single menu entry
func (m Model) renderButton(index int, b transform.Button) string {
	label := b.Action.Label
	if label == "" {
		label = b.Action.ID
	}
	line := fmt.Sprintf("%d. %s", index+1, label)

	var tags []string
	if b.Action.DesktopOnly() {
		tags = append(tags, tagStyle.Render("[desktop]"))
	}
	if b.Action.Conflict {
		tags = append(tags, conflictTagStyle.Render("[name conflict]"))
	}
	if !b.Enabled {
		tags = append(tags, tagStyle.Render("(unavailable)"))
	}
	if len(tags) > 0 {
		line += " " + strings.Join(tags, " ")
	}

	switch {
	case index == m.cursor:
		return selectedItemStyle.Render(line)
	case !b.Enabled:
		return disabledItemStyle.Render(line)
	default:
		return itemStyle.Render(line)
	}
}

// renderDialog renders the open dialog, if any
func (m Model) renderDialog() (string, bool) {
	d, props, ok := m.activeDialog()
	if !ok {
		return "", false
	}

	lines := []string{dialogTitleStyle.Render(d.Title)}
	if d.Description != "" {
		lines = append(lines, dialogTextStyle.Render(d.Description))
	}
	lines = append(lines, dialogTextStyle.Render(fmt.Sprintf("Current dataset: %d samples", props.Dataset.Len())))

	if m.dialogErr != "" {
		lines = append(lines, dialogErrorStyle.Render(m.dialogErr))
	}

	if m.running {
		lines = append(lines, dialogHintStyle.Render(m.spinner.View()+" Running…  esc: cancel"))
	} else {
		lines = append(lines, dialogHintStyle.Render("enter: apply  •  esc: close"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...), true
}

// renderFooter renders the footer with keyboard shortcuts
func (m Model) renderFooter() string {
	hints := []string{
		"↑/↓: navigate",
		"enter: open",
		"r: reload plugins",
		"?: help",
	}
	if m.showError || m.notice != "" {
		hints = append(hints, "x: dismiss")
	}
	hints = append(hints, "q: quit")

	return footerStyle.Render(strings.Join(hints, "  •  "))
}

// renderHelpView renders the key bindings
func (m Model) renderHelpView() string {
	bindings := [][2]string{
		{"↑/k ↓/j", "Move between transforms"},
		{"1-9", "Jump to a transform"},
		{"enter", "Open the highlighted transform"},
		{"r", "Reload plugins and re-check availability"},
		{"x", "Dismiss banners"},
		{"enter/y", "Apply the open dialog"},
		{"esc/n", "Close the open dialog, or cancel a running one"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	rows := []string{helpTitleStyle.Render("Keyboard Shortcuts")}
	for _, b := range bindings {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, helpKeyStyle.Render(b[0]), helpDescStyle.Render(b[1])))
	}
	box := helpBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
