package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/config"
	"github.com/phantom-finance/phantomfin/internal/notify"
	"github.com/phantom-finance/phantomfin/internal/session"
	"github.com/phantom-finance/phantomfin/internal/store"
)

// App ties together views.
type App struct {
	ctx   context.Context
	cfg   config.Config
	store *store.Store
	sess  *session.Session

	state  appState
	doc    *budget.Document
	status string

	pathInput textinput.Model
	keyInput  textinput.Model
	spin      spinner.Model
	prog      progress.Model
	tbl       table.Model
	rows      []session.Row

	editingKey   bool
	confirmClear bool
	showAPIKey   bool
	apiKey       string
	aiEnabled    bool

	updates chan *budget.Document
	notices chan notice
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewImport    appState = "import"
	viewSettings  appState = "settings"
)

func New(ctx context.Context, cfg config.Config, st *store.Store, sess *session.Session) *App {
	pi := textinput.New()
	pi.Placeholder = "statement.csv"
	pi.CharLimit = 512
	pi.Width = 48

	ki := textinput.New()
	ki.Placeholder = "gsk_..."
	ki.CharLimit = 256
	ki.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 50

	cols := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 34},
		{Title: "Amount", Width: 10},
		{Title: "Section", Width: 17},
		{Title: "Category", Width: 14},
		{Title: "Conf", Width: 6},
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(14))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	ts.Selected = ts.Selected.Bold(true)
	tbl.SetStyles(ts)

	a := &App{
		ctx:       ctx,
		cfg:       cfg,
		store:     st,
		sess:      sess,
		state:     viewDashboard,
		doc:       st.Snapshot(),
		pathInput: pi,
		keyInput:  ki,
		spin:      sp,
		prog:      pb,
		tbl:       tbl,
		apiKey:    config.ResolveAPIKey(cfg),
		updates:   make(chan *budget.Document, 8),
		notices:   make(chan notice, 16),
	}
	a.aiEnabled = a.apiKey != ""
	st.Subscribe(func(doc *budget.Document) {
		select {
		case a.updates <- doc:
		default:
		}
	})
	return a
}

// SetSession attaches the import session. It must be called before Init;
// the session itself needs the app's Notifier first.
func (a *App) SetSession(sess *session.Session) {
	a.sess = sess
}

// Notifier routes session signals onto the status line.
func (a *App) Notifier() notify.Notifier {
	return notify.Func(func(message string, severity notify.Severity) {
		select {
		case a.notices <- notice{message, severity}:
		default:
		}
	})
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitForUpdate(), a.waitForNotice())
}

func (a *App) waitForUpdate() tea.Cmd {
	return func() tea.Msg { return docMsg(<-a.updates) }
}

func (a *App) waitForNotice() tea.Cmd {
	return func() tea.Msg { return noticeMsg(<-a.notices) }
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case docMsg:
		a.doc = (*budget.Document)(m)
		return a, a.waitForUpdate()
	case noticeMsg:
		a.status = notice(m).render()
		return a, a.waitForNotice()
	case statusMsg:
		a.status = string(m)
		return a, nil
	case spinner.TickMsg:
		step := a.sess.Step()
		if step == session.StepParsing || step == session.StepCategorizing {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(m)
			return a, cmd
		}
		return a, nil
	case tickMsg:
		if a.sess.Step() == session.StepCategorizing {
			return a, a.pollCmd()
		}
		return a, nil
	case parsedMsg:
		if m.err != nil {
			// session is back at upload; the notifier already reported it
			return a, a.pathInput.Focus()
		}
		return a, tea.Batch(a.classifyCmd(), a.pollCmd(), a.spin.Tick)
	case classifiedMsg:
		if m.err != nil {
			// the session is already back at upload
			a.status = "error: " + m.err.Error()
			a.pathInput.SetValue("")
			return a, a.pathInput.Focus()
		}
		a.refreshTable()
		return a, nil
	case errMsg:
		a.status = "error: " + m.Error()
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.state == viewImport {
		return a.handleImportKey(m)
	}
	if a.state == viewSettings {
		return a.handleSettingsKey(m)
	}
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "i":
		a.state = viewImport
		a.status = ""
		a.pathInput.SetValue("")
		return a, tea.Batch(a.pathInput.Focus(), textinput.Blink)
	case "s":
		a.state = viewSettings
		a.status = ""
	case "m":
		return a, a.toggleDemoCmd()
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch a.sess.Step() {
	case session.StepUpload:
		switch m.Type {
		case tea.KeyEsc:
			a.state = viewDashboard
			a.pathInput.Blur()
			return a, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(a.pathInput.Value())
			if path == "" {
				a.status = "enter a statement path"
				return a, nil
			}
			a.pathInput.Blur()
			return a, tea.Batch(a.parseCmd(path), a.spin.Tick)
		}
		var cmd tea.Cmd
		a.pathInput, cmd = a.pathInput.Update(m)
		return a, cmd
	case session.StepReview:
		return a.handleReviewKey(m)
	case session.StepDone:
		switch m.String() {
		case "enter", "esc", "q":
			a.sess.Reset()
			a.state = viewDashboard
		}
		return a, nil
	default:
		// parsing or categorizing: esc abandons
		if m.Type == tea.KeyEsc {
			a.sess.Reset()
			a.state = viewDashboard
		}
		return a, nil
	}
}

func (a *App) handleReviewKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "esc", "r":
		a.sess.Reset()
		a.state = viewImport
		a.pathInput.SetValue("")
		return a, tea.Batch(a.pathInput.Focus(), textinput.Blink)
	case "up", "down", "k", "j", "pgup", "pgdown":
		var cmd tea.Cmd
		a.tbl, cmd = a.tbl.Update(m)
		return a, cmd
	case " ":
		if row := a.currentRow(); row != nil {
			a.sess.ToggleSelected(row.Tx.ID)
			a.refreshRows()
		}
	case "a":
		a.sess.SetSelectedAll(true)
		a.refreshRows()
	case "n":
		a.sess.SetSelectedAll(false)
		a.refreshRows()
	case "s":
		if row := a.currentRow(); row != nil {
			a.sess.SetSection(row.Tx.ID, nextSection(row.Cat.TargetSection))
			a.refreshRows()
		}
	case "c":
		if row := a.currentRow(); row != nil {
			a.sess.SetCategory(row.Tx.ID, nextCategory(row.Cat.TargetSection, row.Cat.Category))
			a.refreshRows()
		}
	case "f":
		a.sess.SetFilter(nextFilter(a.sess.Filter()))
		a.refreshTable()
	case "enter":
		if _, err := a.sess.Commit(); err != nil {
			a.status = "error: " + err.Error()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editingKey {
		switch m.Type {
		case tea.KeyEsc:
			a.editingKey = false
			a.keyInput.Blur()
			return a, nil
		case tea.KeyEnter:
			a.editingKey = false
			a.keyInput.Blur()
			key := strings.TrimSpace(a.keyInput.Value())
			a.cfg.AI.APIKey = key
			if err := config.Save(a.cfg); err != nil {
				a.status = "error: " + err.Error()
				return a, nil
			}
			a.apiKey = config.ResolveAPIKey(a.cfg)
			a.aiEnabled = a.apiKey != ""
			a.status = "API key saved to config (restart to apply)"
			return a, nil
		}
		var cmd tea.Cmd
		a.keyInput, cmd = a.keyInput.Update(m)
		return a, cmd
	}
	if a.confirmClear {
		switch m.String() {
		case "y", "Y":
			a.confirmClear = false
			return a, a.clearCmd()
		case "n", "N", "esc":
			a.confirmClear = false
		}
		return a, nil
	}
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDashboard
		a.status = ""
	case "e":
		a.editingKey = true
		a.keyInput.SetValue(a.cfg.AI.APIKey)
		return a, tea.Batch(a.keyInput.Focus(), textinput.Blink)
	case "v":
		a.showAPIKey = !a.showAPIKey
	case "m":
		return a, a.toggleDemoCmd()
	case "o":
		return a, a.exportCmd()
	case "x":
		a.confirmClear = true
	}
	return a, nil
}

// commands

func (a *App) parseCmd(path string) tea.Cmd {
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			path = p
		}
	}
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", path, err)}
		}
		defer f.Close()
		return parsedMsg{err: a.sess.Parse(filepath.Base(path), f)}
	}
}

func (a *App) classifyCmd() tea.Cmd {
	return func() tea.Msg {
		return classifiedMsg{err: a.sess.Classify(a.ctx)}
	}
}

func (a *App) pollCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) toggleDemoCmd() tea.Cmd {
	return func() tea.Msg {
		if a.store.DemoMode() {
			if err := a.store.ExitDemoMode(false); err != nil {
				return errMsg{err}
			}
			return statusMsg("Demo mode off")
		}
		a.store.EnterDemoMode()
		return statusMsg("Demo mode on (changes are not saved)")
	}
}

func (a *App) exportCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := a.store.ExportJSON()
		if err != nil {
			return errMsg{err}
		}
		name := fmt.Sprintf("phantomfin-export-%s.json", time.Now().Format("2006-01-02"))
		if err := os.WriteFile(name, data, 0o600); err != nil {
			return errMsg{err}
		}
		return statusMsg("Exported to " + name)
	}
}

func (a *App) clearCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Clear(); err != nil {
			return errMsg{err}
		}
		return statusMsg("All data cleared")
	}
}

// review table

func (a *App) currentRow() *session.Row {
	i := a.tbl.Cursor()
	if i < 0 || i >= len(a.rows) {
		return nil
	}
	return &a.rows[i]
}

// refreshTable rebuilds rows after a filter change and resets the cursor.
func (a *App) refreshTable() {
	a.refreshRows()
	a.tbl.SetCursor(0)
}

func (a *App) refreshRows() {
	a.rows = a.sess.Rows()
	rows := make([]table.Row, 0, len(a.rows))
	for _, r := range a.rows {
		mark := "[ ]"
		if r.Selected {
			mark = "[x]"
		}
		desc := r.Tx.Description
		if r.Duplicate {
			desc = "dup? " + desc
		}
		amount := fmt.Sprintf("%s%.2f", a.cfg.UI.CurrencySymbol, r.Tx.Amount)
		if r.Tx.Type == "debit" {
			amount = "-" + amount
		}
		rows = append(rows, table.Row{
			mark,
			r.Tx.Date.Format("2006-01-02"),
			desc,
			amount,
			r.Cat.TargetSection.Label(),
			r.Cat.Category,
			string(r.Cat.Confidence),
		})
	}
	a.tbl.SetRows(rows)
}

func nextSection(cur budget.Section) budget.Section {
	for i, s := range budget.Sections {
		if s == cur {
			return budget.Sections[(i+1)%len(budget.Sections)]
		}
	}
	return budget.Sections[0]
}

func nextCategory(section budget.Section, cur string) string {
	opts := budget.CategoryOptions(section)
	for i, o := range opts {
		if o.Value == cur {
			return opts[(i+1)%len(opts)].Value
		}
	}
	if len(opts) == 0 {
		return cur
	}
	return opts[0].Value
}

var filterOrder = []session.Filter{
	session.FilterAll,
	session.FilterNeedsReview,
	session.FilterIncome,
	session.FilterExpense,
	session.FilterSkip,
}

func nextFilter(cur session.Filter) session.Filter {
	for i, f := range filterOrder {
		if f == cur {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return session.FilterAll
}

// messages

type docMsg *budget.Document

type parsedMsg struct{ err error }

type classifiedMsg struct{ err error }

type tickMsg time.Time

type errMsg struct{ error }

type notice struct {
	message  string
	severity notify.Severity
}

type noticeMsg notice

type statusMsg string

func (n notice) render() string {
	switch n.severity {
	case notify.Error:
		return "error: " + n.message
	case notify.Warning:
		return "warning: " + n.message
	default:
		return n.message
	}
}

// styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewImport:
		body = a.renderImport()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderDashboard() string {
	title := "Phantom Finance"
	if a.store.DemoMode() {
		title += "  [DEMO]"
	}
	out := titleStyle.Render(title) + "\n"
	cur := a.cfg.UI.CurrencySymbol
	d := a.doc

	out += fmt.Sprintf("Monthly income:     %s%.2f  (%d sources)\n", cur, d.TotalMonthlyIncome(), len(d.Income))
	out += fmt.Sprintf("Monthly expenses:   %s%.2f  (%d items)\n", cur, d.TotalMonthlyExpenses(), len(d.MonthlyExpenses))
	out += fmt.Sprintf("Debt payments:      %s%.2f  (%s%.2f owed across %d debts)\n", cur, d.TotalDebtPayments(), cur, d.TotalDebt(), len(d.Debts))
	out += fmt.Sprintf("Business expenses:  %s%.2f  (%d items)\n", cur, d.TotalBusinessExpenses(), len(d.BusinessExpenses))
	out += fmt.Sprintf("Net monthly:        %s%.2f\n", cur, d.NetMonthly())

	ai := "off (no API key)"
	if a.aiEnabled {
		ai = "on"
	}
	out += dimStyle.Render("AI categorization: "+ai) + "\n"
	out += "\n[i] Import statement  [m] Demo mode  [s] Settings  [q] Quit"
	return out
}

func (a *App) renderImport() string {
	switch a.sess.Step() {
	case session.StepUpload:
		out := titleStyle.Render("Import Bank Statement") + "\n"
		out += "Statement path (.csv, .xlsx, .xls):\n"
		out += a.pathInput.View() + "\n"
		out += "\n[enter] Parse  [esc] Back"
		return out
	case session.StepParsing:
		return titleStyle.Render("Import Bank Statement") + "\n" +
			a.spin.View() + " Parsing " + a.sess.FileName() + "..."
	case session.StepCategorizing:
		done, total := a.sess.Progress()
		pct := 0.0
		if total > 0 {
			pct = float64(done) / float64(total)
		}
		out := titleStyle.Render("Import Bank Statement") + "\n"
		out += a.spin.View() + fmt.Sprintf(" Categorizing %d of %d\n", done, total)
		out += a.prog.ViewAs(pct) + "\n"
		out += "\n[esc] Cancel"
		return out
	case session.StepReview:
		stats := a.sess.Stats()
		out := titleStyle.Render("Review Import") + "\n"
		out += fmt.Sprintf("%d transactions, %d selected, %d low confidence, %d possible duplicates   filter: %s\n",
			stats.Total, stats.Selected, stats.NeedReview, stats.Duplicates, a.sess.Filter())
		out += a.tbl.View() + "\n"
		out += "[space] Toggle  [a] All  [n] None  [s] Section  [c] Category  [f] Filter  [enter] Import  [r] Restart  [q] Quit"
		return out
	case session.StepDone:
		return titleStyle.Render("Import Complete") + "\n\n[enter] Back to dashboard"
	default:
		return ""
	}
}

func (a *App) renderSettings() string {
	out := titleStyle.Render("Settings") + "\n"

	apiValue := "(not set)"
	if a.apiKey != "" {
		if a.showAPIKey {
			apiValue = a.apiKey
		} else {
			apiValue = strings.Repeat("*", len(a.apiKey))
		}
	}
	out += fmt.Sprintf("Groq API key (%s): %s\n", a.cfg.AI.APIKeyEnv, apiValue)
	out += fmt.Sprintf("Model: %s\n", a.cfg.AI.Model)
	out += fmt.Sprintf("Store: %s\n", a.cfg.Store.Path)
	demo := "off"
	if a.store.DemoMode() {
		demo = "on"
	}
	out += "Demo mode: " + demo + "\n"

	if a.editingKey {
		out += "\nNew API key:\n" + a.keyInput.View() + "\n[enter] Save  [esc] Cancel"
		return out
	}
	if a.confirmClear {
		out += "\n" + titleStyle.Render("Clear all data?") + " This resets the budget to empty.\n[y] Yes  [n] No"
		return out
	}

	out += "\n[e] Edit API key  [v] Toggle visibility  [m] Demo mode  [o] Export JSON  [x] Clear data  [esc] Back"
	return out
}
