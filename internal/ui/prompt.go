package ui

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/lipgloss"
)

// CurrentUser returns the invoking user's login name for the prompt,
// falling back to $USER and finally "fsh" if neither is available.
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "fsh"
}

// RenderPrompt renders a Powerline-style prompt segmented into the
// user name (no host), the working directory, and a return-code indicator,
// adapted from the teacher's vault-aware prompt
// (internal/ui/prompt.go) — here the third segment's color is keyed
// off the previous command's return code instead of vault state.
func RenderPrompt(user, path string, prevReturn int) string {
	userBg := mocha.Mauve
	pathBg := mocha.Surface
	rcBg := mocha.Green
	if prevReturn != 0 {
		rcBg = mocha.Red
	}

	userStyle := lipgloss.NewStyle().Background(userBg).Foreground(mocha.Base).Padding(0, 1).Bold(true)
	pathStyle := lipgloss.NewStyle().Background(pathBg).Foreground(mocha.Text).Padding(0, 1)
	rcStyle := lipgloss.NewStyle().Background(rcBg).Foreground(mocha.Base).Padding(0, 1)

	seg1 := userStyle.Render(user)
	seg2 := pathStyle.Render(path)
	seg3 := rcStyle.Render(fmt.Sprintf("%d", prevReturn))

	return fmt.Sprintf("%s%s%s %s ", seg1, seg2, seg3, lipgloss.NewStyle().Foreground(rcBg).Render(""))
}
