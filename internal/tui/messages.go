package tui

import "github.com/MKhiriev/go-bankroll-sync/models"

type pullDoneMsg struct {
	resp models.PullResponse
	full bool
	err  error
}

type versionMsg struct {
	version string
	err     error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
