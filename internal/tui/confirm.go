// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmRestore
	// confirmFirstSync asks which way the first sync goes.
	confirmFirstSync
	confirmRemoteBackup
)

type confirmModel struct {
	action  confirmAction
	message string
	// target is the transaction id for confirmDelete.
	target string
}

func (m confirmModel) View() string {
	content := m.message + "\n\n"
	if m.action == confirmFirstSync {
		content += "b back up this device    r restore the cloud backup    esc later"
	} else {
		content += "y yes    n no"
	}
	return overlayBoxStyle.Render(content)
}
