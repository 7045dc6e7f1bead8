package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/flockview/internal/input"
)

// Approximate pixel size of a terminal cell, so drag speed feels like the
// desktop viewer.
const (
	cellWidth  = 8
	cellHeight = 16
)

// translate maps a bubbletea message onto a viewer event. Arrow keys are
// deliberately left unmapped.
func translate(msg tea.Msg) (input.Event, bool) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		x, y := float64(msg.X*cellWidth), float64(msg.Y*cellHeight)
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return input.Wheel{DeltaY: -1}, true
		case tea.MouseButtonWheelDown:
			return input.Wheel{DeltaY: 1}, true
		}
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				return input.PointerDown{X: x, Y: y}, true
			}
		case tea.MouseActionMotion:
			return input.PointerMove{X: x, Y: y}, true
		case tea.MouseActionRelease:
			return input.PointerUp{}, true
		}
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeySpace:
			return input.Key{Code: input.KeySpace}, true
		case tea.KeyEnter:
			return input.Key{Code: input.KeyEnter}, true
		}
	}
	return nil, false
}
