package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/logging"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/nakachan-ing/todocal-cli/internal/todo"
)

var fixedNow = time.Date(2025, time.December, 15, 10, 0, 0, 0, time.Local)

func newTestApp(t *testing.T) *App {
	t.Helper()
	s := store.NewJSONStore(filepath.Join(t.TempDir(), "tasks.json"), logging.Nop())
	svc := todo.NewService(s, logging.Nop())
	app, err := NewApp(context.Background(), svc, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func press(app *App, keys ...tea.KeyMsg) {
	for _, k := range keys {
		app.Update(k)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func addTask(app *App, title, content string) {
	press(app, runes("n"), runes(title), key(tea.KeyTab), runes(content), key(tea.KeyEnter))
}

func selectedStatus(t *testing.T, app *App) model.DayStatus {
	t.Helper()
	cell, ok := app.Grid().Selected()
	if !ok {
		t.Fatal("grid has no selected cell")
	}
	return cell.Status
}

func TestApp_StartsOnToday(t *testing.T) {
	app := newTestApp(t)

	want := civil.Date{Year: 2025, Month: time.December, Day: 15}
	if app.Selected() != want {
		t.Errorf("Selected() = %v, want %v", app.Selected(), want)
	}
	if app.Month() != (calendar.Month{Year: 2025, Month: time.December}) {
		t.Errorf("Month() = %v, want 2025-12", app.Month())
	}
	if len(app.Tasks()) != 0 {
		t.Errorf("Tasks() = %v, want empty", app.Tasks())
	}
	if selectedStatus(t, app) != model.StatusNone {
		t.Errorf("selected status = %v, want None", selectedStatus(t, app))
	}
}

func TestApp_CreateToggleDelete(t *testing.T) {
	app := newTestApp(t)

	addTask(app, "  Buy milk  ", "2 bottles")
	tasks := app.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].Title != "Buy milk" {
		t.Errorf("Title = %q, want trimmed %q", tasks[0].Title, "Buy milk")
	}
	if tasks[0].Date != app.Selected() {
		t.Errorf("task date = %v, want selected %v", tasks[0].Date, app.Selected())
	}
	if got := selectedStatus(t, app); got != model.StatusIncomplete {
		t.Errorf("status after create = %v, want Incomplete", got)
	}

	press(app, space)
	if !app.Tasks()[0].Done {
		t.Error("task not marked done")
	}
	if got := selectedStatus(t, app); got != model.StatusAllDone {
		t.Errorf("status after toggle = %v, want AllDone", got)
	}

	press(app, runes("d"), runes("n"))
	if len(app.Tasks()) != 1 {
		t.Fatal("delete without confirmation removed the task")
	}

	press(app, runes("d"), runes("y"))
	if len(app.Tasks()) != 0 {
		t.Errorf("len(Tasks) after delete = %d, want 0", len(app.Tasks()))
	}
	if got := selectedStatus(t, app); got != model.StatusNone {
		t.Errorf("status after delete = %v, want None", got)
	}
}

func TestApp_DoneTaskMovesDown(t *testing.T) {
	app := newTestApp(t)
	addTask(app, "A", "first")
	addTask(app, "B", "second")

	// cursor follows the last saved task; move back to A
	press(app, runes("k"))
	press(app, space)

	tasks := app.Tasks()
	if len(tasks) != 2 || tasks[0].Title != "B" || tasks[1].Title != "A" {
		t.Fatalf("order = %v, want B, A", titles(tasks))
	}
	if got := selectedStatus(t, app); got != model.StatusIncomplete {
		t.Errorf("status = %v, want Incomplete", got)
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestApp_EditKeepsDateAndDone(t *testing.T) {
	app := newTestApp(t)
	addTask(app, "Draft", "v1")
	press(app, space)

	press(app, runes("e"))
	// clear the prefilled title and type a new one
	press(app, key(tea.KeyCtrlU), runes("Final"))
	press(app, key(tea.KeyEnter))

	tasks := app.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Final" || !tasks[0].Done {
		t.Errorf("tasks after edit = %+v", tasks)
	}
}

func TestApp_ValidationKeepsFormOpen(t *testing.T) {
	app := newTestApp(t)

	press(app, runes("n"), runes("   "), key(tea.KeyEnter))
	errs := app.FieldErrors()
	if errs["title"] != "must not be blank" || errs["content"] != "must not be blank" {
		t.Errorf("FieldErrors() = %v", errs)
	}
	if !strings.Contains(app.View(), "title must not be blank") {
		t.Error("view does not show the title message")
	}
	if len(app.Tasks()) != 0 {
		t.Error("invalid task was saved")
	}

	press(app, key(tea.KeyEsc))
	if app.FieldErrors() != nil {
		t.Error("Esc did not clear field errors")
	}
	if strings.Contains(app.View(), "Tab to switch field") {
		t.Error("form still shown after Esc")
	}
}

func TestApp_Navigation(t *testing.T) {
	app := newTestApp(t)
	date := func(y int, m time.Month, d int) civil.Date { return civil.Date{Year: y, Month: m, Day: d} }

	press(app, key(tea.KeyRight))
	if app.Selected() != date(2025, time.December, 16) {
		t.Errorf("after right: %v", app.Selected())
	}
	press(app, key(tea.KeyDown))
	if app.Selected() != date(2025, time.December, 23) {
		t.Errorf("after down: %v", app.Selected())
	}

	for i := 0; i < 9; i++ {
		press(app, key(tea.KeyRight))
	}
	if app.Selected() != date(2026, time.January, 1) {
		t.Errorf("after crossing month: %v", app.Selected())
	}
	if app.Month() != (calendar.Month{Year: 2026, Month: time.January}) {
		t.Errorf("month did not follow selection: %v", app.Month())
	}

	press(app, runes("t"))
	if app.Selected() != date(2025, time.December, 15) {
		t.Errorf("after t: %v", app.Selected())
	}

	press(app, key(tea.KeyRight))
	for i := 0; i < 15; i++ {
		press(app, key(tea.KeyRight))
	}
	// 2025-12-31
	press(app, runes("]"), runes("]"))
	if app.Selected() != date(2026, time.February, 28) {
		t.Errorf("after ]]: %v, want clamped 2026-02-28", app.Selected())
	}
	press(app, runes("["))
	if app.Selected() != date(2026, time.January, 28) {
		t.Errorf("after [: %v", app.Selected())
	}
}

func TestApp_StatusesFollowDisplayedMonth(t *testing.T) {
	app := newTestApp(t)
	addTask(app, "December task", "x")

	press(app, runes("]"))
	for _, c := range app.Grid().Cells {
		if c.Status != model.StatusNone {
			t.Errorf("%v status = %v in January, want None", c.Date, c.Status)
		}
	}

	press(app, runes("["))
	cell, ok := app.Grid().At(3, 0) // 2025-12-15
	if !ok || cell.Status != model.StatusIncomplete {
		t.Errorf("At(3, 0) = %+v, %v; want Incomplete", cell, ok)
	}
}

func TestApp_QuitKey(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestApp_View(t *testing.T) {
	app := newTestApp(t)
	addTask(app, "Write report", "Q4 numbers")

	view := app.View()
	for _, want := range []string{"December 2025", "Mon", "Sun", "Write report", "[15"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
