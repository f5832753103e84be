// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// pairingModel shows the recovery string of this device.
type pairingModel struct {
	code   string
	status string
}

func (m pairingModel) View() string {
	var b strings.Builder
	b.WriteString("Enter this recovery key on your other device to share the same backup.\n")
	b.WriteString("Anyone holding it can read your backup.\n\n")
	b.WriteString(codeStyle.Render(m.code))
	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}
	return renderPage("RECOVERY KEY", b.String(), "c copy  esc back")
}

// importModel reads a recovery string from another device.
type importModel struct {
	input      textinput.Model
	submitting bool
}

func newImportModel() importModel {
	in := textinput.New()
	in.Placeholder = "lsp1...."
	in.Width = 60
	in.Focus()
	return importModel{input: in}
}

func (m importModel) View() string {
	var b strings.Builder
	b.WriteString("Paste the recovery key shown on your other device.\n")
	b.WriteString("The next sync replaces local data with that device's backup.\n\n")
	b.WriteString("[" + m.input.View() + "]")
	if m.submitting {
		b.WriteString("\n\nImporting...")
	}
	return renderPage("IMPORT RECOVERY KEY", b.String(), "esc cancel  enter import")
}
