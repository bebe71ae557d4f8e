// Package tui is the terminal front end: a catalog list with fuzzy
// filtering and play/favorite keys. All playback and favorite decisions
// live in the core packages; the TUI only issues intents and renders the
// single user-visible notification.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmarder/screener/internal/domain"
	"github.com/mmarder/screener/internal/favorites"
	"github.com/mmarder/screener/internal/playback"
)

const playTimeout = 60 * time.Second

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	favoriteGlyph = "★"
)

type playDoneMsg struct {
	itemID string
	err    error
}

type favDoneMsg struct {
	itemID   string
	favorite bool
	err      error
}

// App is the bubbletea model for the catalog surface.
type App struct {
	controller *playback.Controller
	favorites  *favorites.Service
	viewer     domain.ViewerContext
	logger     *slog.Logger

	items   []*domain.MediaItem
	titles  []string
	visible []int // indexes into items after filtering
	cursor  int

	filter    textinput.Model
	filtering bool

	status  string
	isError bool
	now     time.Time // refreshed per update so render stays pure
	width   int
	height  int
}

// NewApp creates the catalog surface over an already-fetched item list.
func NewApp(
	items []*domain.MediaItem,
	viewer domain.ViewerContext,
	controller *playback.Controller,
	favs *favorites.Service,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.Default()
	}

	filter := textinput.New()
	filter.Placeholder = "filter titles"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	return &App{
		controller: controller,
		favorites:  favs,
		viewer:     viewer,
		logger:     logger,
		items:      items,
		titles:     titles,
		visible:    filterIndexes("", titles),
		filter:     filter,
		now:        time.Now(),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.now = time.Now()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case playDoneMsg:
		if msg.err != nil {
			a.notifyError(playback.UserMessage(msg.err))
		} else if sess := a.controller.Current(); sess != nil && sess.MediaID() == msg.itemID {
			a.notify(fmt.Sprintf("Playing (%s)", sess.Status()))
		}
		return a, nil

	case favDoneMsg:
		if msg.err != nil {
			a.notifyError("Could not update favorites, please try again")
		} else if msg.favorite {
			a.notify("Added to favorites")
		} else {
			a.notify("Removed from favorites")
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filtering {
		switch msg.String() {
		case "esc":
			a.filtering = false
			a.filter.SetValue("")
			a.filter.Blur()
			a.applyFilter()
			return a, nil
		case "enter":
			a.filtering = false
			a.filter.Blur()
			return a, nil
		default:
			var cmd tea.Cmd
			a.filter, cmd = a.filter.Update(msg)
			a.applyFilter()
			return a, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
	case "/":
		a.filtering = true
		a.filter.Focus()
		return a, textinput.Blink
	case "enter":
		if item := a.selected(); item != nil {
			a.notify("Resolving " + item.Title + "…")
			return a, a.playCmd(item)
		}
	case "f":
		if item := a.selected(); item != nil {
			return a, a.toggleFavoriteCmd(item.ID)
		}
	case "x":
		a.controller.Close()
		a.notify("Player closed")
	}
	return a, nil
}

func (a *App) selected() *domain.MediaItem {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return nil
	}
	return a.items[a.visible[a.cursor]]
}

func (a *App) applyFilter() {
	a.visible = filterIndexes(a.filter.Value(), a.titles)
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// playCmd issues the play intent off the update loop. Duplicate intents are
// dropped inside the controller, so mashing enter is harmless.
func (a *App) playCmd(item *domain.MediaItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		return playDoneMsg{itemID: item.ID, err: a.controller.Play(ctx, item, a.viewer)}
	}
}

func (a *App) toggleFavoriteCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		fav, err := a.favorites.Toggle(ctx, itemID)
		return favDoneMsg{itemID: itemID, favorite: fav, err: err}
	}
}

func (a *App) notify(text string) {
	a.status = text
	a.isError = false
}

func (a *App) notifyError(text string) {
	a.status = text
	a.isError = true
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Screener"))
	b.WriteString("\n\n")

	if len(a.visible) == 0 {
		b.WriteString(lockedStyle.Render("  no matching titles"))
		b.WriteString("\n")
	}

	for row, idx := range a.visible {
		item := a.items[idx]

		marker := "  "
		if row == a.cursor {
			marker = cursorStyle.Render("> ")
		}

		line := item.Title
		if a.favorites.IsFavorite(item.ID) {
			line = favoriteGlyph + " " + line
		} else {
			line = "  " + line
		}

		if item.Restricted() {
			var badges []string
			if item.VIPOnly {
				badges = append(badges, "VIP")
			}
			if ab := item.AgeBadge(); ab != "" {
				badges = append(badges, ab)
			}
			line += " " + badgeStyle.Render("["+strings.Join(badges, " ")+"]")
		}
		if item.Duration > 0 {
			line += lockedStyle.Render("  " + item.FormattedDuration())
		}
		line += lockedStyle.Render(fmt.Sprintf("  %d views", item.ViewCount))

		if !domain.Evaluate(a.viewer, *item, a.now).Allowed {
			line = lockedStyle.Render(line)
		}

		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n")
	if a.filtering || a.filter.Value() != "" {
		b.WriteString(a.filter.View())
		b.WriteString("\n")
	}

	if a.status != "" {
		style := statusStyle
		if a.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(lockedStyle.Render("enter play · f favorite · / filter · x close · q quit"))
	return b.String()
}
