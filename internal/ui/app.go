package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/todo"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

const (
	fieldTitle = iota
	fieldContent
)

// App is the bubbletea model behind `todocal tui`. The displayed month and
// the selected date live here and are handed to the service and the grid
// builder on every refresh.
type App struct {
	ctx context.Context
	svc *todo.Service
	now func() time.Time

	month    calendar.Month
	selected civil.Date
	grid     calendar.Grid
	tasks    []model.Task
	cursor   int

	mode        mode
	editingID   string
	inputs      []textinput.Model
	focus       int
	fieldErrors map[string]string

	status string
	err    error
}

// NewApp loads the month containing today with today selected.
func NewApp(ctx context.Context, svc *todo.Service, now func() time.Time) (*App, error) {
	if now == nil {
		now = time.Now
	}
	today := civil.DateOf(now())

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = model.TitleMaxLength * 2
	content := textinput.New()
	content.Placeholder = "Content"
	content.CharLimit = model.ContentMaxLength * 2

	a := &App{
		ctx:      ctx,
		svc:      svc,
		now:      now,
		month:    calendar.MonthOf(today),
		selected: today,
		inputs:   []textinput.Model{title, content},
	}
	if err := a.refresh(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) Init() tea.Cmd {
	return nil
}

// Selected returns the selected date.
func (a *App) Selected() civil.Date { return a.selected }

// Month returns the displayed month.
func (a *App) Month() calendar.Month { return a.month }

// Tasks returns the selected day's tasks in display order.
func (a *App) Tasks() []model.Task { return a.tasks }

// Grid returns the grid built on the last refresh.
func (a *App) Grid() calendar.Grid { return a.grid }

// FieldErrors returns the validation messages of the last rejected save.
func (a *App) FieldErrors() map[string]string { return a.fieldErrors }

// Err returns the last non-validation error.
func (a *App) Err() error { return a.err }

// refresh reloads the day list and rebuilds the grid for the current month
// and selection.
func (a *App) refresh() error {
	tasks, err := a.svc.ListForDate(a.ctx, a.selected)
	if err != nil {
		return err
	}
	statuses, err := a.svc.MonthStatuses(a.ctx, a.month)
	if err != nil {
		return err
	}

	a.tasks = tasks
	a.grid = calendar.Build(a.month, a.selected, statuses)
	if a.cursor >= len(a.tasks) {
		a.cursor = len(a.tasks) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	return nil
}

func (a *App) selectDate(d civil.Date) {
	a.selected = d
	if !a.month.Contains(d) {
		a.month = calendar.MonthOf(d)
	}
	a.cursor = 0
	a.setErr(a.refresh())
}

func (a *App) showMonth(m calendar.Month) {
	a.month = m
	a.selected = m.Clamp(a.selected.Day)
	a.cursor = 0
	a.setErr(a.refresh())
}

func (a *App) setErr(err error) {
	a.err = err
	if err != nil {
		a.status = ""
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch a.mode {
	case modeForm:
		return a.updateForm(key)
	case modeConfirmDelete:
		return a.updateConfirm(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "left", "h":
		a.selectDate(a.selected.AddDays(-1))
	case "right", "l":
		a.selectDate(a.selected.AddDays(1))
	case "up":
		a.selectDate(a.selected.AddDays(-7))
	case "down":
		a.selectDate(a.selected.AddDays(7))
	case "[":
		a.showMonth(a.month.Prev())
	case "]":
		a.showMonth(a.month.Next())
	case "t":
		a.selectDate(civil.DateOf(a.now()))
	case "j", "tab":
		if a.cursor < len(a.tasks)-1 {
			a.cursor++
		}
	case "k", "shift+tab":
		if a.cursor > 0 {
			a.cursor--
		}
	case "n":
		return a, a.openForm(model.Task{})
	case "e", "enter":
		if task, ok := a.current(); ok {
			return a, a.openForm(task)
		}
	case " ", "space":
		a.toggleDone()
	case "d":
		if _, ok := a.current(); ok {
			a.mode = modeConfirmDelete
		}
	}
	return a, nil
}

func (a *App) current() (model.Task, bool) {
	if a.cursor < 0 || a.cursor >= len(a.tasks) {
		return model.Task{}, false
	}
	return a.tasks[a.cursor], true
}

func (a *App) toggleDone() {
	task, ok := a.current()
	if !ok {
		return
	}
	updated, err := a.svc.Update(a.ctx, task.ID, task.Date, task.Title, task.Content, !task.Done)
	if err != nil {
		a.setErr(err)
		return
	}
	a.status = fmt.Sprintf("✅ %q marked %s", updated.Title, doneLabel(updated.Done))
	a.setErr(a.refresh())
	a.followTask(updated.ID)
}

// followTask moves the cursor onto id after a reorder.
func (a *App) followTask(id string) {
	for i, t := range a.tasks {
		if t.ID == id {
			a.cursor = i
			return
		}
	}
}

func (a *App) openForm(task model.Task) tea.Cmd {
	a.mode = modeForm
	a.editingID = task.ID
	a.fieldErrors = nil
	a.inputs[fieldTitle].SetValue(task.Title)
	a.inputs[fieldContent].SetValue(task.Content)
	return a.focusField(fieldTitle)
}

func (a *App) focusField(i int) tea.Cmd {
	a.focus = i
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	return a.inputs[i].Focus()
}

func (a *App) closeForm() {
	a.mode = modeBrowse
	a.editingID = ""
	for j := range a.inputs {
		a.inputs[j].Blur()
		a.inputs[j].SetValue("")
	}
}

func (a *App) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		a.closeForm()
		a.fieldErrors = nil
		return a, nil
	case "tab", "down":
		return a, a.focusField((a.focus + 1) % len(a.inputs))
	case "shift+tab", "up":
		return a, a.focusField((a.focus + len(a.inputs) - 1) % len(a.inputs))
	case "enter":
		a.submitForm()
		return a, nil
	}

	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(key)
	return a, cmd
}

func (a *App) submitForm() {
	title := strings.TrimSpace(a.inputs[fieldTitle].Value())
	content := strings.TrimSpace(a.inputs[fieldContent].Value())

	var (
		saved model.Task
		err   error
	)
	if a.editingID == "" {
		saved, err = a.svc.Create(a.ctx, a.selected, title, content, false)
	} else {
		var existing model.Task
		existing, err = a.svc.Get(a.ctx, a.editingID)
		if err == nil {
			saved, err = a.svc.Update(a.ctx, a.editingID, existing.Date, title, content, existing.Done)
		}
	}

	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		a.fieldErrors = verr.Fields
		return
	}
	if err != nil {
		a.closeForm()
		if refreshErr := a.refresh(); refreshErr != nil {
			err = refreshErr
		}
		a.setErr(err)
		return
	}

	a.fieldErrors = nil
	a.closeForm()
	a.status = fmt.Sprintf("✅ Saved %q", saved.Title)
	a.setErr(a.refresh())
	a.followTask(saved.ID)
}

func (a *App) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = modeBrowse
	if key.String() != "y" {
		return a, nil
	}
	task, ok := a.current()
	if !ok {
		return a, nil
	}
	if err := a.svc.Delete(a.ctx, task.ID); err != nil {
		a.setErr(err)
		return a, nil
	}
	a.status = fmt.Sprintf("🗑️ Deleted %q", task.Title)
	a.setErr(a.refresh())
	return a, nil
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}

func (a *App) View() string {
	left := RenderMonth(a.grid) + "\n\n" + Legend()
	right := a.renderTasks()
	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), "  ", panelStyle.Render(right))

	var s strings.Builder
	s.WriteString(body)
	s.WriteString("\n")

	switch a.mode {
	case modeForm:
		s.WriteString(a.renderForm())
	case modeConfirmDelete:
		if task, ok := a.current(); ok {
			s.WriteString(fmt.Sprintf("Delete %q? (y/N)\n", task.Title))
		}
	default:
		if a.err != nil {
			s.WriteString(errorStyle.Render("❌ "+a.err.Error()) + "\n")
		} else if a.status != "" {
			s.WriteString(a.status + "\n")
		}
		s.WriteString(helpStyle.Render("←→↑↓ move  [ ] month  t today  j/k task  n new  e edit  space done  d delete  q quit") + "\n")
	}
	return s.String()
}

func (a *App) renderTasks() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("📅 %s (%s)", a.selected, a.selected.In(time.UTC).Weekday())))
	s.WriteString("\n\n")

	if len(a.tasks) == 0 {
		s.WriteString(helpStyle.Render("No tasks. Press n to add one."))
		return s.String()
	}

	for i, t := range a.tasks {
		cursor := "  "
		if i == a.cursor {
			cursor = "👉"
		}
		box := "[ ]"
		title := t.Title
		if t.Done {
			box = "[x]"
			title = doneTaskStyle.Render(title)
		}
		s.WriteString(fmt.Sprintf("%s %s %s\n", cursor, box, title))
	}
	if task, ok := a.current(); ok && task.Content != "" {
		s.WriteString("\n" + helpStyle.Render(task.Content))
	}
	return s.String()
}

func (a *App) renderForm() string {
	var s strings.Builder
	heading := "✏️  New task for " + a.selected.String()
	if a.editingID != "" {
		heading = "✏️  Editing task"
	}
	s.WriteString(heading + "\n")

	labels := []string{"title", "content"}
	for i, in := range a.inputs {
		s.WriteString(fmt.Sprintf("%-8s %s\n", labels[i]+":", in.View()))
		if msg, ok := a.fieldErrors[labels[i]]; ok {
			s.WriteString(errorStyle.Render(fmt.Sprintf("         %s %s", labels[i], msg)) + "\n")
		}
	}

	var others []string
	for field, msg := range a.fieldErrors {
		if field != "title" && field != "content" {
			others = append(others, field+" "+msg)
		}
	}
	sort.Strings(others)
	for _, o := range others {
		s.WriteString(errorStyle.Render(o) + "\n")
	}

	s.WriteString(helpStyle.Render("(Tab to switch field, Enter to save, Esc to cancel)") + "\n")
	return s.String()
}
