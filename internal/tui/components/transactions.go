// Package components holds the per-tab Bubble Tea models of the full
// screen UI.
package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/invoice"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/tui/themes"
)

// dateField is the date bound being edited.
type dateField int

const (
	editNone dateField = iota
	editFrom
	editTo
)

// TransactionsModel is the transaction history tab: a table of bookings
// narrowed by a status filter and an optional date range.
type TransactionsModel struct {
	theme     themes.Theme
	all       []model.Transaction
	visible   []model.Transaction
	query     aggregate.Query
	table     table.Model
	fromInput textinput.Model
	toInput   textinput.Model
	inputErr  string
	editing   dateField
	width     int
	height    int
}

// NewTransactions creates the transactions tab.
func NewTransactions(theme themes.Theme) TransactionsModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Start", Width: 11},
		{Title: "End", Width: 11},
		{Title: "Hikers", Width: 7},
		{Title: "Total", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return TransactionsModel{
		theme:     theme,
		table:     t,
		query:     aggregate.Query{Status: model.StatusAll},
		fromInput: dateInput("from (YYYY-MM-DD)"),
		toInput:   dateInput("to (YYYY-MM-DD)"),
		width:     80,
		height:    24,
	}
}

func dateInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = len(model.DateLayout)
	in.Width = len(placeholder)
	return in
}

// SetTransactions replaces the fetched list and reapplies the filter.
func (m *TransactionsModel) SetTransactions(list []model.Transaction) {
	m.all = list
	m.apply()
}

// Query returns the active filter.
func (m TransactionsModel) Query() aggregate.Query {
	return m.query
}

// Visible returns the filtered, sorted list shown in the table.
func (m TransactionsModel) Visible() []model.Transaction {
	return m.visible
}

// Editing reports whether a date input has focus. The parent must route
// every key here while it does.
func (m TransactionsModel) Editing() bool {
	return m.editing != editNone
}

// Selected returns the transaction under the cursor.
func (m TransactionsModel) Selected() (model.Transaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.Transaction{}, false
	}
	return m.visible[i], true
}

// Resize adapts the table to the available space.
func (m *TransactionsModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-8, 3))
}

// Update handles messages.
func (m TransactionsModel) Update(msg tea.Msg) (TransactionsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing != editNone {
		return m.handleEditKey(keyMsg)
	}

	switch keyMsg.String() {
	case "s":
		m.query.Status = model.NextFilterStatus(m.query.Status)
		m.apply()
		return m, nil

	case "f":
		return m, m.startEditing(editFrom)

	case "t":
		return m, m.startEditing(editTo)

	case "c":
		m.query = aggregate.Query{Status: model.StatusAll}
		m.fromInput.SetValue("")
		m.toInput.SetValue("")
		m.inputErr = ""
		m.apply()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *TransactionsModel) startEditing(field dateField) tea.Cmd {
	m.editing = field
	m.inputErr = ""
	if field == editFrom {
		m.toInput.Blur()
		return m.fromInput.Focus()
	}
	m.fromInput.Blur()
	return m.toInput.Focus()
}

func (m TransactionsModel) handleEditKey(msg tea.KeyMsg) (TransactionsModel, tea.Cmd) {
	input := &m.fromInput
	bound := &m.query.Start
	if m.editing == editTo {
		input = &m.toInput
		bound = &m.query.End
	}

	switch msg.String() {
	case "enter":
		raw := strings.TrimSpace(input.Value())
		if raw == "" {
			*bound = nil
		} else {
			d, err := model.ParseDate(raw)
			if err != nil {
				m.inputErr = "Use the YYYY-MM-DD format."
				return m, nil
			}
			*bound = &d
		}
		input.Blur()
		m.editing = editNone
		m.inputErr = ""
		m.apply()
		return m, nil

	case "esc":
		input.Blur()
		if *bound != nil {
			input.SetValue((*bound).String())
		} else {
			input.SetValue("")
		}
		m.editing = editNone
		m.inputErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (m *TransactionsModel) apply() {
	m.visible = aggregate.Apply(m.all, m.query)

	rows := make([]table.Row, 0, len(m.visible))
	for _, txn := range m.visible {
		rows = append(rows, table.Row{
			txn.CreatedAt.Format(model.DateLayout),
			string(txn.Status),
			txn.StartDate.String(),
			txn.EndDate.String(),
			strconv.Itoa(len(txn.Tickets)),
			invoice.FormatRupiah(txn.TotalAmount),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// View renders the tab.
func (m TransactionsModel) View() string {
	sections := []string{m.renderFilterBar()}
	if m.inputErr != "" {
		sections = append(sections, m.theme.StatusError.Render(m.inputErr))
	}

	if len(m.visible) == 0 {
		sections = append(sections, m.theme.Muted.Render("No transactions found."))
	} else {
		sections = append(sections, m.table.View(), m.renderDetail())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TransactionsModel) renderFilterBar() string {
	from := m.fromInput.View()
	to := m.toInput.View()
	if m.editing != editFrom {
		from = boundLabel("from", m.query.Start)
	}
	if m.editing != editTo {
		to = boundLabel("to", m.query.End)
	}

	status := m.theme.Status(m.query.Status)
	count := m.theme.Muted.Render(fmt.Sprintf("%d of %d", len(m.visible), len(m.all)))

	return lipgloss.JoinHorizontal(lipgloss.Center,
		status, "  ",
		m.theme.Input.Render(from), " ",
		m.theme.Input.Render(to), "  ",
		count,
	)
}

func boundLabel(name string, d *model.Date) string {
	if d == nil || !d.IsSet() {
		return name + ": any"
	}
	return name + ": " + d.String()
}

func (m TransactionsModel) renderDetail() string {
	txn, ok := m.Selected()
	if !ok {
		return ""
	}

	names := txn.HikerNames()
	lines := []string{
		m.theme.Bold.Render("Booking " + txn.ID),
		fmt.Sprintf("%s to %s", invoice.LongDateOf(txn.StartDate), invoice.LongDateOf(txn.EndDate)),
		"Hikers: " + strings.Join(names, ", "),
		"Total: " + invoice.FormatRupiah(txn.TotalAmount),
	}
	if txn.Status == model.StatusUnpaid && txn.PaymentURL != "" {
		lines = append(lines, m.theme.StatusInfo.Render("Pay at "+txn.PaymentURL))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}
