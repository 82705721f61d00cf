// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package termui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorBlack    = lipgloss.Color("0")
	colorGrey     = lipgloss.Color("7")
	colorDarkGrey = lipgloss.Color("8")
	colorRed      = lipgloss.Color("9")
	colorWhite    = lipgloss.Color("15")
)

type Styles struct {
	Base     lipgloss.Style
	Border   lipgloss.Style
	Label    lipgloss.Style
	Screen   lipgloss.Style
	Memory   lipgloss.Style
	Current  lipgloss.Style
	Register lipgloss.Style
	Warning  lipgloss.Style
}

// NewStyles builds the colour scheme for the given lipgloss renderer, which
// decides how many colours the output supports.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Base:     r.NewStyle().Foreground(colorWhite).Background(colorDarkGrey),
		Border:   r.NewStyle().Foreground(colorDarkGrey).Background(colorWhite),
		Label:    r.NewStyle().Foreground(colorBlack).Background(colorWhite).Bold(true),
		Screen:   r.NewStyle().Foreground(colorWhite).Background(colorDarkGrey),
		Memory:   r.NewStyle().Foreground(colorDarkGrey).Background(colorGrey),
		Current:  r.NewStyle().Foreground(colorBlack).Background(colorWhite),
		Register: r.NewStyle().Foreground(colorWhite).Background(colorDarkGrey),
		Warning:  r.NewStyle().Foreground(colorRed).Bold(true),
	}
}
