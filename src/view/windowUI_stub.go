//go:build !ebiten

package view

import (
	"context"

	errgo "gopkg.in/errgo.v1"

	"toruslife/src/simulation"
)

//WindowUI is a placeholder that satisfies the API expected by the GUI build
type WindowUI struct{}

//NewWindowUI reports that the ebiten build tag is required for the window
func NewWindowUI(int) (*WindowUI, error) {
	return nil, errgo.New("the window requires building with the 'ebiten' tag")
}

func (w *WindowUI) Register(*simulation.Simulation) {}
func (w *WindowUI) Refresh()                        {}

func (w *WindowUI) Start(context.Context) error {
	return errgo.New("the window requires building with the 'ebiten' tag")
}
