package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"ntr/internal/config"
	"ntr/internal/domain"
	"ntr/internal/storage"
)

// listNameWidth bounds test names in the failure list
const listNameWidth = 60

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// View displays test failures in an interactive TUI. Toggling a failure's
// resolved flag is written back to storage immediately.
func (ev *ErrorViewer) View(ctx context.Context, results *domain.TestResultsOutput) error {
	if results.Meta.ImportError != "" {
		color.Red("Last run could not load its tests: %s", results.Meta.ImportError)
	}
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range results.Details {
		list.AddItem(listItemText(results.Details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Stats header: path and test name of the selected failure
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// List on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	var saveErr error
	updateHeader := func() {
		text := fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(results.Details), countUnresolved(results.Details))
		if saveErr != nil {
			text += fmt.Sprintf("| [red]%v[white] ", saveErr)
		}
		headerView.SetText(text)
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			statsView.SetText(formatFailureStats(results.Details[index], index+1))
			detailsView.SetText(formatFailureDetails(results.Details[index]))
			detailsView.ScrollToBeginning()
		}
	}

	toggleResolved := func(index int) {
		results.Details[index].Resolved = !results.Details[index].Resolved
		list.SetItemText(index, listItemText(results.Details[index], index), "")
		saveErr = ev.storage.SaveOutput(ctx, results)
		updateHeader()
		updateDetails()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				if index := list.GetCurrentItem(); index >= 0 && index < len(results.Details) {
					toggleResolved(index)
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return saveErr
}

func countUnresolved(failures []domain.TestFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// listItemText formats a list entry using tview color tags
func listItemText(failure domain.TestFailure, index int) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	name = tview.Escape(runewidth.Truncate(name, listNameWidth, "…"))

	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatFailureDetails formats a test failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n\n", tview.Escape(failure.TestName))
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n", tview.Escape(failure.FilePath))
	fmt.Fprintf(&b, "[cyan]Kind: %s[white]\n", titleKind(failure.Kind))
	fmt.Fprintf(&b, "[cyan]Duration: %.3f sec[white]\n\n", failure.Duration)

	if len(failure.Errors) > 0 {
		b.WriteString("[yellow]Errors:[white]\n")
		for _, e := range failure.Errors {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(e))
		}
		b.WriteString("\n")
	}

	if failure.RunnerError != "" {
		fmt.Fprintf(&b, "[yellow]Runner Error:[white]\n  %s\n\n", tview.Escape(failure.RunnerError))
	}

	if len(failure.Logs) > 0 {
		b.WriteString("[yellow]Logs:[white]\n")
		for _, l := range failure.Logs {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(l))
		}
	}

	return b.String()
}

// formatFailureStats formats the stats header for a test failure
func formatFailureStats(failure domain.TestFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}

	testCase := failure.TestName
	if testCase == "" {
		testCase = fmt.Sprintf("Test %d", number)
	}

	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", tview.Escape(path), tview.Escape(testCase))
}
