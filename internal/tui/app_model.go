// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const statusLineTTL = 4 * time.Second

type screen int

const (
	screenMain screen = iota
	screenForm
	screenPairing
	screenImport
	screenInfo
)

type appModel struct {
	ctx      context.Context
	services *service.ClientServices
	info     models.AppBuildInfo
	statuses <-chan models.SyncStatus
	// backups reports other devices' backups once watching started.
	backups  <-chan models.RemoteSyncMetadata
	watching bool
	// copyText writes to the system clipboard.
	copyText func(string) error

	currentScreen screen

	syncScreen syncModel
	list       listModel
	form       formTransactionModel
	pairing    pairingModel
	importForm importModel

	showError    bool
	errorOverlay errorOverlayModel
	showConfirm  bool
	confirm      confirmModel
}

func newAppModel(ctx context.Context, services *service.ClientServices, info models.AppBuildInfo, statuses <-chan models.SyncStatus) appModel {
	return appModel{
		ctx:           ctx,
		services:      services,
		info:          info,
		statuses:      statuses,
		copyText:      clipboard.WriteAll,
		currentScreen: screenMain,
		syncScreen:    newSyncModel(services.SyncService.Status()),
		list:          newListModel(),
	}
}

// Init loads the ledger, starts listening for status snapshots and runs a
// first sync round.
func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.cmdLoadList(),
		waitForStatus(m.statuses),
		m.cmdSync(opSync),
		m.syncScreen.spinner.Tick,
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
		if m.showConfirm {
			return m.updateConfirm(msg)
		}
	case statusMsg:
		m.syncScreen.current = msg.status
		return m, waitForStatus(m.statuses)
	case statusClosedMsg:
		return m, nil
	case remoteWatchMsg:
		if msg.err != nil {
			// retried after the next successful round
			m.watching = false
			return m, nil
		}
		m.backups = msg.backups
		return m, waitForBackup(m.backups)
	case remoteBackupMsg:
		return m.onRemoteBackup(msg)
	case remoteWatchClosedMsg:
		m.watching = false
		m.backups = nil
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.syncScreen.spinner, cmd = m.syncScreen.spinner.Update(msg)
		return m, cmd
	case syncDoneMsg:
		return m.onSyncDone(msg)
	case listLoadedMsg:
		m.list.loading = false
		m.list.lastErr = msg.err
		if msg.err == nil {
			m.list.items = msg.items
			m.list.clamp()
		}
		return m, nil
	case itemSavedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.showErrorf(userMessage(msg.err))
			return m, nil
		}
		m.currentScreen = screenMain
		return m, m.cmdLoadList()
	case itemDeletedMsg:
		if msg.err != nil {
			m.showErrorf(userMessage(msg.err))
			return m, nil
		}
		return m, m.cmdLoadList()
	case pairingMsg:
		if msg.err != nil {
			m.showErrorf(userMessage(msg.err))
			return m, nil
		}
		m.pairing = pairingModel{code: msg.code, status: clipboardStatus(msg.copyErr)}
		m.currentScreen = screenPairing
		return m, nil
	case copiedMsg:
		m.pairing.status = clipboardStatus(msg.err)
		return m, nil
	case importedMsg:
		m.importForm.submitting = false
		if msg.err != nil {
			m.showErrorf(userMessage(msg.err))
			return m, nil
		}
		m.currentScreen = screenMain
		m.syncScreen.line = "Recovery key imported. Restoring the shared backup..."
		return m, m.cmdSync(opSync)
	case clearStatusMsg:
		m.syncScreen.line = ""
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	switch m.currentScreen {
	case screenMain:
		return m.updateMain(msg)
	case screenForm:
		return m.updateForm(msg)
	case screenPairing:
		return m.updatePairing(msg)
	case screenImport:
		return m.updateImport(msg)
	case screenInfo:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.esc) {
			m.currentScreen = screenMain
		}
	}

	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.currentScreen {
	case screenMain:
		body = m.mainView()
	case screenForm:
		body = m.form.View()
	case screenPairing:
		body = m.pairing.View()
	case screenImport:
		body = m.importForm.View()
	case screenInfo:
		body = renderBuildInfoWindow(m.info)
	}

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

func (m appModel) mainView() string {
	var b strings.Builder
	b.WriteString(m.syncScreen.View())
	b.WriteString("\n")
	b.WriteString(m.list.View())
	return renderPage("LEDGER SYNC", b.String(),
		"s sync  b backup  r restore  k recovery key  i import key\n  n new  e edit  d delete  v about  q quit")
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes) && m.confirm.action != confirmFirstSync:
		action := m.confirm
		m.showConfirm = false
		m.confirm = confirmModel{}
		switch action.action {
		case confirmDelete:
			return m, m.cmdDeleteItem(action.target)
		case confirmRestore:
			return m, m.cmdSync(opRestore)
		case confirmRemoteBackup:
			return m, m.cmdSync(opSync)
		}
	case m.confirm.action == confirmFirstSync && key.Matches(msg, keys.backup):
		m.showConfirm = false
		m.confirm = confirmModel{}
		return m, m.cmdSync(opBackup)
	case m.confirm.action == confirmFirstSync && key.Matches(msg, keys.restore):
		m.showConfirm = false
		m.confirm = confirmModel{}
		return m, m.cmdSync(opRestore)
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.showConfirm = false
		m.confirm = confirmModel{}
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.list.idx > 0 {
			m.list.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.list.idx < len(m.list.items)-1 {
			m.list.idx++
		}
	case key.Matches(keyMsg, keys.sync):
		return m, m.cmdSync(opSync)
	case key.Matches(keyMsg, keys.backup):
		return m, m.cmdSync(opBackup)
	case key.Matches(keyMsg, keys.restore):
		m.showConfirm = true
		m.confirm = confirmModel{
			action:  confirmRestore,
			message: "Replace the data on this device with the cloud backup?",
		}
	case key.Matches(keyMsg, keys.pairing):
		return m, m.cmdPairingCode()
	case key.Matches(keyMsg, keys.importKey):
		m.importForm = newImportModel()
		m.currentScreen = screenImport
	case key.Matches(keyMsg, keys.newItem):
		m.form = newFormTransactionModel(nil)
		m.currentScreen = screenForm
	case key.Matches(keyMsg, keys.edit):
		tx, ok := m.list.current()
		if !ok {
			return m, nil
		}
		m.form = newFormTransactionModel(&tx)
		m.currentScreen = screenForm
	case key.Matches(keyMsg, keys.delete):
		tx, ok := m.list.current()
		if !ok {
			return m, nil
		}
		m.showConfirm = true
		m.confirm = confirmModel{
			action:  confirmDelete,
			message: fmt.Sprintf("Delete %s %s from %s?", tx.Amount.StringFixed(2), tx.Category, tx.Date.Format(dateLayout)),
			target:  tx.ID,
		}
	case key.Matches(keyMsg, keys.info):
		m.currentScreen = screenInfo
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenMain
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.form = m.form.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.form = m.form.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.form.submitting {
				return m, nil
			}
			tx, err := m.form.toTransaction()
			if err != nil {
				m.showErrorf(err.Error())
				return m, nil
			}
			m.form.submitting = true
			if m.form.editing {
				return m, m.cmdUpdateItem(tx)
			}
			return m, m.cmdCreateItem(tx)
		}
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m appModel) updatePairing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc), key.Matches(keyMsg, keys.quit):
		m.pairing = pairingModel{}
		m.currentScreen = screenMain
	case key.Matches(keyMsg, keys.copy):
		return m, m.cmdCopy(m.pairing.code)
	}
	return m, nil
}

func (m appModel) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenMain
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			code := strings.TrimSpace(m.importForm.input.Value())
			if code == "" || m.importForm.submitting {
				return m, nil
			}
			m.importForm.submitting = true
			return m, m.cmdImport(code)
		}
	}

	var cmd tea.Cmd
	m.importForm.input, cmd = m.importForm.input.Update(msg)
	return m, cmd
}

func (m appModel) onSyncDone(msg syncDoneMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.cmdLoadList(), cmdClearStatus()}

	switch {
	case msg.err != nil:
		m.syncScreen.line = errorStyle.Render(userMessage(msg.err))
	case msg.result.Action == models.SyncActionFailed:
		// the status snapshot already carries the message
		m.syncScreen.line = ""
	default:
		m.syncScreen.line = describeResult(msg.op, msg.result)
		if msg.result.Action == models.SyncActionFirstSync && !m.showConfirm {
			m.showConfirm = true
			m.confirm = confirmModel{
				action:  confirmFirstSync,
				message: "Nothing is backed up for this ledger yet. Choose how the first sync goes.",
			}
		}
		if !m.watching {
			m.watching = true
			cmds = append(cmds, m.cmdWatchRemote())
		}
	}
	return m, tea.Batch(cmds...)
}

// onRemoteBackup offers a sync when another device finished a backup. An
// open dialog is left alone; the status line carries the news instead.
func (m appModel) onRemoteBackup(msg remoteBackupMsg) (tea.Model, tea.Cmd) {
	next := waitForBackup(m.backups)
	if m.showConfirm || m.syncScreen.current.IsSyncing {
		m.syncScreen.line = "Another device updated the cloud backup. Press s to sync."
		return m, next
	}

	m.showConfirm = true
	m.confirm = confirmModel{
		action:  confirmRemoteBackup,
		message: fmt.Sprintf("Another device backed up %d transactions at %s. Sync now?", msg.meta.TransactionCount, formatTime(msg.meta.LastCloudSyncTime)),
	}
	return m, next
}

func describeResult(op syncOp, r models.SyncResult) string {
	switch r.Action {
	case models.SyncActionBackup:
		return fmt.Sprintf("Backed up %d transactions.", r.Written)
	case models.SyncActionRestore:
		if r.Skipped > 0 {
			return fmt.Sprintf("Restored %d transactions, skipped %d unreadable.", r.Read, r.Skipped)
		}
		return fmt.Sprintf("Restored %d transactions.", r.Read)
	case models.SyncActionFirstSync:
		return "No backup yet: press b to back up or r to restore."
	case models.SyncActionNone:
		return "Already up to date."
	}
	return string(op) + " finished."
}

func clipboardStatus(err error) string {
	if err != nil {
		return "Clipboard unavailable, copy the key by hand."
	}
	return okStyle.Render("Copied to clipboard.")
}

func waitForStatus(ch <-chan models.SyncStatus) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return statusClosedMsg{}
		}
		return statusMsg{status: st}
	}
}

func waitForBackup(ch <-chan models.RemoteSyncMetadata) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		meta, ok := <-ch
		if !ok {
			return remoteWatchClosedMsg{}
		}
		return remoteBackupMsg{meta: meta}
	}
}

func (m appModel) cmdWatchRemote() tea.Cmd {
	ctx := m.ctx
	svc := m.services.SyncService
	return func() tea.Msg {
		backups, err := svc.WatchRemote(ctx)
		return remoteWatchMsg{backups: backups, err: err}
	}
}

func (m appModel) cmdSync(op syncOp) tea.Cmd {
	ctx := m.ctx
	svc := m.services.SyncService
	return func() tea.Msg {
		var (
			result models.SyncResult
			err    error
		)
		switch op {
		case opBackup:
			result, err = svc.Backup(ctx)
		case opRestore:
			result, err = svc.Restore(ctx)
		default:
			result, err = svc.PerformSync(ctx)
		}
		return syncDoneMsg{op: op, result: result, err: err}
	}
}

func (m appModel) cmdLoadList() tea.Cmd {
	ctx := m.ctx
	svc := m.services.LedgerService
	return func() tea.Msg {
		items, err := svc.ListTransactions(ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

func (m appModel) cmdCreateItem(tx models.Transaction) tea.Cmd {
	ctx := m.ctx
	svc := m.services.LedgerService
	return func() tea.Msg {
		_, err := svc.AddTransaction(ctx, tx)
		return itemSavedMsg{err: err}
	}
}

func (m appModel) cmdUpdateItem(tx models.Transaction) tea.Cmd {
	ctx := m.ctx
	svc := m.services.LedgerService
	return func() tea.Msg {
		return itemSavedMsg{err: svc.UpdateTransaction(ctx, tx)}
	}
}

func (m appModel) cmdDeleteItem(id string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.LedgerService
	return func() tea.Msg {
		return itemDeletedMsg{err: svc.DeleteTransaction(ctx, id)}
	}
}

// cmdPairingCode exports the recovery string and puts it on the clipboard.
func (m appModel) cmdPairingCode() tea.Cmd {
	ctx := m.ctx
	svc := m.services.KeyService
	copyText := m.copyText
	return func() tea.Msg {
		code, err := svc.ExportRecoveryKey(ctx)
		if err != nil {
			return pairingMsg{err: err}
		}
		return pairingMsg{code: code, copyErr: copyText(code)}
	}
}

func (m appModel) cmdCopy(text string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

func (m appModel) cmdImport(code string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.KeyService
	return func() tea.Msg {
		return importedMsg{err: svc.ImportRecoveryKey(ctx, code)}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusLineTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
