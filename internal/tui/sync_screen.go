// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// syncModel renders the latest status snapshot of the sync service.
type syncModel struct {
	spinner  spinner.Model
	progress progress.Model
	current  models.SyncStatus
	// line is a transient message about the last user action.
	line string
}

func newSyncModel(initial models.SyncStatus) syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		current:  initial,
	}
}

func stateLabel(state models.SyncState) string {
	switch state {
	case models.SyncStateAuthenticating:
		return "Signing in"
	case models.SyncStateUploading:
		return "Uploading backup"
	case models.SyncStateDownloading:
		return "Restoring backup"
	case models.SyncStateNoAction:
		return "Up to date"
	case models.SyncStateSuccess:
		return "Synced"
	case models.SyncStateError:
		return "Sync failed"
	default:
		return "Idle"
	}
}

// shownState is the state the header reports: at rest it is the outcome of
// the previous round.
func shownState(st models.SyncStatus) models.SyncState {
	if st.State == models.SyncStateIdle && st.LastState != "" {
		return st.LastState
	}
	return st.State
}

func (m syncModel) View() string {
	st := m.current
	var b strings.Builder

	state := shownState(st)
	label := stateLabel(state)
	switch {
	case st.IsSyncing:
		b.WriteString(m.spinner.View() + " " + label)
	case state == models.SyncStateError:
		b.WriteString(errorStyle.Render(label))
	case state == models.SyncStateSuccess || state == models.SyncStateNoAction:
		b.WriteString(okStyle.Render(label))
	default:
		b.WriteString(label)
	}
	b.WriteString("\n")

	if st.IsSyncing && st.Total > 0 {
		b.WriteString(m.progress.ViewAs(st.Progress))
		b.WriteString(fmt.Sprintf(" %d/%d\n", st.Done, st.Total))
	}

	b.WriteString("Last sync: " + formatTime(st.LastSyncTime) + "\n")

	if st.ErrorMessage != "" {
		b.WriteString(errorStyle.Render(st.ErrorMessage) + "\n")
	}
	if m.line != "" {
		b.WriteString(m.line + "\n")
	}
	return b.String()
}
