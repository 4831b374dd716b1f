// Package tui is the interactive checklist screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/checklist"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"github.com/amonks/shiftbook/internal/ui"
	"github.com/amonks/shiftbook/settings"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"
)

// NoteDebounce is how long the note editor waits after the last keystroke
// before saving.
const NoteDebounce = 250 * time.Millisecond

// rolloverInterval is how often a long-running session checks whether the
// business day has changed.
const rolloverInterval = time.Minute

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeNote
)

type inputKind int

const (
	inputAddTask inputKind = iota
	inputTooGoodToGo
	inputWriteOff
)

// Options configures Run.
type Options struct {
	Book     *checklist.Book
	Settings *settings.Settings
	// Day is the business day shown first. Defaults to the book's business day.
	Day    businessday.Key
	Logger *zap.Logger
}

type model struct {
	book     *checklist.Book
	settings *settings.Settings
	logger   *zap.Logger

	width  int
	height int

	day    businessday.Key
	today  businessday.Key
	record checklist.DayRecord
	loaded bool
	admin  bool

	tab    int
	cursor int
	mode   mode

	input     textinput.Model
	inputKind inputKind
	note      textarea.Model

	// noteSeq counts note edits; only the flush for the latest edit saves.
	noteSeq   int
	noteSaved int
	noteDay   businessday.Key

	// Store commands run one at a time, in the order they were issued.
	busy    bool
	pending []tea.Cmd

	status      string
	statusLevel statusLevel
}

type dayLoadedMsg struct {
	day    businessday.Key
	record checklist.DayRecord
	admin  bool
	err    error
}

type recordSavedMsg struct {
	day    businessday.Key
	record checklist.DayRecord
	status string
	err    error
}

type noteFlushMsg struct {
	seq int
}

type noteSavedMsg struct {
	day businessday.Key
	seq int
	err error
}

type rolloverTickMsg struct{}

type rolloverMsg struct {
	result checklist.RolloverResult
	err    error
}

// Run starts the checklist screen and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Book == nil {
		return fmt.Errorf("checklist book is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.noteDirty() {
		return m.saveNote()
	}
	return nil
}

func newModel(opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	today := opts.Book.BusinessDay()
	day := opts.Day
	if day == "" {
		day = today
	}

	input := textinput.New()
	input.CharLimit = 200

	note := textarea.New()
	note.Placeholder = "Übergabe für die nächste Schicht"
	note.ShowLineNumbers = false

	return model{
		book:     opts.Book,
		settings: opts.Settings,
		logger:   logger,
		day:      day,
		today:    today,
		input:    input,
		note:     note,
		busy:     true, // Init starts the first load
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadDayCmd(m.day), rolloverTick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		updated, cmd, handled := m.handleKey(msg)
		if handled {
			return updated, cmd
		}
		return updated, nil
	case dayLoadedMsg:
		queued := m.dequeue()
		return m.handleDayLoaded(msg), queued
	case recordSavedMsg:
		queued := m.dequeue()
		return m.handleRecordSaved(msg), queued
	case noteFlushMsg:
		return m.handleNoteFlush(msg)
	case noteSavedMsg:
		queued := m.dequeue()
		return m.handleNoteSaved(msg), queued
	case rolloverTickMsg:
		cmd := m.enqueue(m.rolloverCmd())
		return m, tea.Batch(cmd, rolloverTick())
	case rolloverMsg:
		queued := m.dequeue()
		var cmd tea.Cmd
		m, cmd = m.handleRollover(msg)
		return m, tea.Batch(queued, cmd)
	}
	return m, nil
}

// enqueue returns cmd when no store command is in flight and queues it
// otherwise.
func (m *model) enqueue(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	if m.busy {
		m.pending = append(m.pending[:len(m.pending):len(m.pending)], cmd)
		return nil
	}
	m.busy = true
	return cmd
}

// dequeue marks the running store command as finished and returns the next
// queued one.
func (m *model) dequeue() tea.Cmd {
	if len(m.pending) == 0 {
		m.busy = false
		return nil
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	return next
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch m.mode {
	case modeInput:
		return m.handleInputKey(msg)
	case modeNote:
		return m.handleNoteKey(msg)
	}

	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "tab", "]":
		return m.switchTab(1), nil, true
	case "shift+tab", "backtab", "[":
		return m.switchTab(-1), nil, true
	case "1", "2", "3":
		index := int(key[0] - '1')
		if index < len(m.shifts()) {
			m.tab = index
			m.cursor = 0
		}
		return m, nil, true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil, true
	case "down", "j":
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
		return m, nil, true
	case " ", "enter", "x":
		if len(m.items()) == 0 {
			return m, nil, true
		}
		shift, index := m.currentShift(), m.cursor
		cmd := m.enqueue(m.saveCmd(func(b *checklist.Book, day businessday.Key) (checklist.DayRecord, error) {
			return b.ToggleTask(day, shift, index)
		}, ""))
		return m, cmd, true
	case "a":
		return m.openInput(inputAddTask, ""), textinput.Blink, true
	case "g":
		return m.openInput(inputTooGoodToGo, m.record.Quick.TooGoodToGo), textinput.Blink, true
	case "w":
		return m.openInput(inputWriteOff, m.record.Quick.WriteOff), textinput.Blink, true
	case "d":
		if !m.admin {
			m.setStatus("Löschen nur im Admin-Modus", statusError)
			return m, nil, true
		}
		if len(m.items()) == 0 {
			return m, nil, true
		}
		shift, index := m.currentShift(), m.cursor
		cmd := m.enqueue(m.saveCmd(func(b *checklist.Book, day businessday.Key) (checklist.DayRecord, error) {
			return b.DeleteTask(day, shift, index)
		}, "Aufgabe gelöscht"))
		return m, cmd, true
	case "r":
		cmd := m.enqueue(m.saveCmd(func(b *checklist.Book, day businessday.Key) (checklist.DayRecord, error) {
			return b.ResetTasks(day)
		}, "Alle Aufgaben zurückgesetzt"))
		return m, cmd, true
	case "n":
		return m.openNote(), textarea.Blink, true
	case "left", "h":
		return m.showDay(m.day.AddDays(-1))
	case "right", "l":
		return m.showDay(m.day.AddDays(1))
	case "t":
		return m.showDay(m.book.BusinessDay())
	}
	return m, nil, false
}

func (m model) handleInputKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil, true
	case "enter":
		value := m.input.Value()
		kind := m.inputKind
		shift := m.currentShift()
		m.closeInput()
		switch kind {
		case inputAddTask:
			if internalstrings.IsBlank(value) {
				m.setStatus("Aufgabe ist leer", statusError)
				return m, nil, true
			}
			cmd := m.enqueue(m.saveCmd(func(b *checklist.Book, day businessday.Key) (checklist.DayRecord, error) {
				return b.AddTask(day, shift, value)
			}, "Aufgabe hinzugefügt"))
			return m, cmd, true
		case inputTooGoodToGo:
			cmd := m.enqueue(m.quickCmd(checklist.QuickTooGoodToGo, value))
			return m, cmd, true
		case inputWriteOff:
			cmd := m.enqueue(m.quickCmd(checklist.QuickWriteOff, value))
			return m, cmd, true
		}
		return m, nil, true
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, true
}

func (m model) handleNoteKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m.closeNote()
	}
	before := m.note.Value()
	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	if m.note.Value() == before {
		return m, cmd, true
	}
	m.record.Note = m.note.Value()
	m.noteSeq++
	return m, tea.Batch(cmd, noteFlushAfter(m.noteSeq)), true
}

func noteFlushAfter(seq int) tea.Cmd {
	return tea.Tick(NoteDebounce, func(time.Time) tea.Msg {
		return noteFlushMsg{seq: seq}
	})
}

func (m model) handleNoteFlush(msg noteFlushMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.noteSeq || !m.noteDirty() {
		return m, nil
	}
	cmd := m.enqueue(m.saveNoteCmd())
	return m, cmd
}

func (m model) noteDirty() bool {
	return m.noteSeq != m.noteSaved
}

func (m model) saveNote() error {
	_, err := m.book.SetNote(m.noteDay, m.note.Value())
	return err
}

func (m model) saveNoteCmd() tea.Cmd {
	book, day, seq, text := m.book, m.noteDay, m.noteSeq, m.note.Value()
	return func() tea.Msg {
		_, err := book.SetNote(day, text)
		return noteSavedMsg{day: day, seq: seq, err: err}
	}
}

func (m model) handleNoteSaved(msg noteSavedMsg) model {
	if msg.err != nil {
		m.logger.Warn("note save failed", zap.String("day", string(msg.day)), zap.Error(msg.err))
		m.setStatus(fmt.Sprintf("Notiz nicht gespeichert: %v", msg.err), statusError)
		return m
	}
	if msg.seq > m.noteSaved {
		m.noteSaved = msg.seq
	}
	if m.mode == modeNote {
		m.setStatus("Notiz gespeichert", statusInfo)
	}
	return m
}

func (m model) openNote() model {
	m.mode = modeNote
	m.noteDay = m.day
	m.note.SetValue(m.record.Note)
	m.note.Focus()
	m.setStatus("Notiz bearbeiten, esc zum Beenden", statusNone)
	return m
}

// closeNote leaves the editor and saves a pending edit right away.
func (m model) closeNote() (model, tea.Cmd, bool) {
	m.mode = modeList
	m.note.Blur()
	m.setStatus("", statusNone)
	if !m.noteDirty() {
		return m, nil, true
	}
	cmd := m.enqueue(m.saveNoteCmd())
	return m, cmd, true
}

func (m model) openInput(kind inputKind, value string) model {
	m.mode = modeInput
	m.inputKind = kind
	switch kind {
	case inputAddTask:
		m.input.Prompt = m.currentShift().Label() + ": "
		m.input.Placeholder = "Neue Aufgabe"
	case inputTooGoodToGo:
		m.input.Prompt = "Too Good To Go: "
		m.input.Placeholder = ""
	case inputWriteOff:
		m.input.Prompt = "Abschriften: "
		m.input.Placeholder = ""
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m *model) closeInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m model) showDay(day businessday.Key) (model, tea.Cmd, bool) {
	if day == "" {
		return m, nil, true
	}
	m.day = day
	m.loaded = false
	cmd := m.enqueue(m.loadDayCmd(day))
	return m, cmd, true
}

func (m model) switchTab(delta int) model {
	count := len(m.shifts())
	if count == 0 {
		return m
	}
	m.tab = (m.tab + delta + count) % count
	m.cursor = 0
	return m
}

func (m model) shifts() []checklist.Shift {
	return checklist.VisibleShifts(m.day.Weekday())
}

func (m model) currentShift() checklist.Shift {
	shifts := m.shifts()
	if m.tab >= len(shifts) {
		return shifts[0]
	}
	return shifts[m.tab]
}

func (m model) items() []checklist.TaskItem {
	return m.record.Tasks.List(m.currentShift())
}

func (m *model) clampCursor() {
	if m.tab >= len(m.shifts()) {
		m.tab = 0
	}
	if n := len(m.items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) resize() {
	width := m.width - 2
	if width < 10 {
		width = 10
	}
	m.input.Width = width
	m.note.SetWidth(width)
	height := m.height / 3
	if height < 3 {
		height = 3
	}
	m.note.SetHeight(height)
}

func (m model) loadDayCmd(day businessday.Key) tea.Cmd {
	book, prefs := m.book, m.settings
	return func() tea.Msg {
		record, err := book.LoadDay(day)
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}
		admin := false
		if prefs != nil {
			admin, err = prefs.Admin()
		}
		return dayLoadedMsg{day: day, record: record, admin: admin, err: err}
	}
}

func (m model) handleDayLoaded(msg dayLoadedMsg) model {
	if msg.day != m.day {
		return m
	}
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Laden fehlgeschlagen: %v", msg.err), statusError)
		return m
	}
	m.record = msg.record
	m.admin = msg.admin
	m.loaded = true
	m.clampCursor()
	return m
}

func (m model) saveCmd(fn func(*checklist.Book, businessday.Key) (checklist.DayRecord, error), status string) tea.Cmd {
	book, day := m.book, m.day
	return func() tea.Msg {
		record, err := fn(book, day)
		return recordSavedMsg{day: day, record: record, status: status, err: err}
	}
}

func (m model) quickCmd(field checklist.QuickField, value string) tea.Cmd {
	return m.saveCmd(func(b *checklist.Book, day businessday.Key) (checklist.DayRecord, error) {
		return b.SetQuick(day, field, value)
	}, "Gespeichert")
}

func (m model) handleRecordSaved(msg recordSavedMsg) model {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Speichern fehlgeschlagen: %v", msg.err), statusError)
		return m
	}
	if msg.day != m.day {
		return m
	}
	record := msg.record
	if m.noteDirty() && msg.day == m.noteDay {
		record.Note = m.note.Value()
	}
	m.record = record
	m.clampCursor()
	if msg.status != "" {
		m.setStatus(msg.status, statusInfo)
	}
	return m
}

func rolloverTick() tea.Cmd {
	return tea.Tick(rolloverInterval, func(time.Time) tea.Msg {
		return rolloverTickMsg{}
	})
}

func (m model) rolloverCmd() tea.Cmd {
	book := m.book
	return func() tea.Msg {
		result, err := book.Rollover()
		return rolloverMsg{result: result, err: err}
	}
}

func (m model) handleRollover(msg rolloverMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("rollover failed", zap.Error(msg.err))
		m.setStatus(fmt.Sprintf("Tageswechsel fehlgeschlagen: %v", msg.err), statusError)
		return m, nil
	}
	if !msg.result.Ran {
		return m, nil
	}
	following := m.day == m.today
	m.today = msg.result.Today
	m.setStatus("Neuer Geschäftstag: "+ui.FormatDay(m.today), statusInfo)
	if following && m.mode == modeList {
		m.day = m.today
		m.loaded = false
		cmd := m.enqueue(m.loadDayCmd(m.day))
		return m, cmd
	}
	return m, nil
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Lade Checkliste..."
	}

	sections := []string{m.renderHeader(), m.renderTabs()}
	switch m.mode {
	case modeNote:
		sections = append(sections, labelStyle.Render("Übergabe"), m.note.View())
	default:
		sections = append(sections, m.renderTasks())
		if m.mode == modeInput {
			sections = append(sections, m.input.View())
		}
		sections = append(sections, m.renderSummary())
	}
	if status := m.renderStatusLine(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderHelpLine())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderHeader() string {
	title := ui.FormatDay(m.day)
	switch {
	case m.day == m.today:
		title += " (heute)"
	case m.day < m.today:
		title += " (vergangen)"
	}
	if m.admin {
		title += "  " + valueMuted.Render("[admin]")
	}
	return headerStyle.Render(title)
}

func (m model) renderTabs() string {
	shifts := m.shifts()
	parts := make([]string, 0, len(shifts))
	for i, shift := range shifts {
		_, _, percent := checklist.Progress(m.record.Tasks.List(shift))
		label := fmt.Sprintf("[%d] %s %d%%", i+1, shift.Label(), percent)
		style := tabInactiveStyle
		if i == m.tab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if gap := m.width - lipgloss.Width(content); gap > 0 {
		content += strings.Repeat(" ", gap)
	}
	return tabBarStyle.Render(content)
}

func (m model) renderTasks() string {
	if !m.loaded {
		return valueMuted.Render("Lade...")
	}
	items := m.items()
	if len(items) == 0 {
		return valueMuted.Render("Keine Aufgaben")
	}
	lines := make([]string, 0, len(items)+1)
	for i, item := range items {
		box := "[ ]"
		text := item.Text
		if item.Done {
			box = "[x]"
		}
		text = truncate.StringWithTail(text, uint(max(m.width-8, 1)), "…")
		if item.Done {
			text = doneStyle.Render(text)
		}
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		lines = append(lines, pointer+box+" "+text)
	}
	done, total, percent := checklist.Progress(items)
	lines = append(lines, "", fmt.Sprintf("%s %d/%d", ui.ProgressBar(percent, 20), done, total))
	return strings.Join(lines, "\n")
}

func (m model) renderSummary() string {
	quick := fmt.Sprintf("%s %s  %s %s",
		labelStyle.Render("Too Good To Go:"), orDash(m.record.Quick.TooGoodToGo),
		labelStyle.Render("Abschriften:"), orDash(m.record.Quick.WriteOff),
	)
	note := valueMuted.Render("Keine Übergabe")
	if m.record.HasNote() {
		first := strings.SplitN(internalstrings.TrimSpace(m.record.Note), "\n", 2)[0]
		note = labelStyle.Render("Übergabe:") + " " + truncate.StringWithTail(first, uint(max(m.width-12, 1)), "…")
	}
	return quick + "\n" + note
}

func orDash(value string) string {
	if internalstrings.IsBlank(value) {
		return "—"
	}
	return value
}

func (m model) renderStatusLine() string {
	text := m.status
	if internalstrings.IsBlank(text) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo {
		style = statusSuccessStyle
	}
	return style.Render(text)
}

func (m model) renderHelpLine() string {
	text := m.helpSummary()
	return helpBarStyle.Render(truncate.StringWithTail(text, uint(max(m.width, 1)), "…"))
}

func (m model) helpSummary() string {
	switch m.mode {
	case modeInput:
		return "enter speichern | esc abbrechen"
	case modeNote:
		return "esc fertig | wird automatisch gespeichert"
	}
	summary := "space abhaken | a neu | r zurücksetzen | n Notiz | g tgtg | w Abschriften | ←/→ Tag | t heute | q Ende"
	if m.admin {
		summary = "d löschen | " + summary
	}
	return summary
}
