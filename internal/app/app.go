package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/clock"
	"github.com/abhisek/chunkz/internal/config"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/gloss"
	"github.com/abhisek/chunkz/internal/persist"
	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/screen"
	"github.com/abhisek/chunkz/internal/screens/home"
	"github.com/abhisek/chunkz/internal/screens/loading"
	"github.com/abhisek/chunkz/internal/screens/study"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/speech"
	"github.com/abhisek/chunkz/internal/store"
	"github.com/abhisek/chunkz/internal/ui/layout"
)

// Options holds the dependencies of the TUI. Nil repos disable
// persistence, a nil Gloss skips meaning generation.
type Options struct {
	Config *config.Config

	// Source overrides the dataset location from Config.
	Source dataset.Source

	Snapshots store.SnapshotRepo
	Events    store.EventRepo
	Gloss     *gloss.Service
	Speaker   speech.Speaker
	Clock     clock.Clock
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = &config.Config{}
	}
	if o.Speaker == nil {
		o.Speaker = speech.Nop{}
	}
	if o.Clock == nil {
		o.Clock = clock.SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Prepare loads the dataset, restores saved progress and returns the home
// screen. It never fails: load problems become a notice on the home
// screen over an empty program.
func Prepare(ctx context.Context, opts Options) screen.Screen {
	opts = opts.withDefaults()
	cfg := opts.Config
	logger := opts.Logger

	var notice string
	src := opts.Source
	if src == nil {
		s, err := dataset.Open(cfg.Dataset)
		if err != nil {
			logger.Warn("dataset not configured", "error", err)
			notice = fmt.Sprintf("Could not load sentences: %v", err)
		}
		src = s
	}

	buildOpts := dataset.BuildOptions{
		ProgramID: cfg.Program.ID,
		Label:     cfg.Program.Label,
		IDPrefix:  cfg.Program.IDPrefix,
	}
	program, err := dataset.Load(ctx, src, buildOpts)
	if err != nil {
		if notice == "" {
			notice = fmt.Sprintf("Could not load sentences: %v", err)
		}
		logger.Warn("dataset load failed", "error", err)
	} else {
		logger.Info("dataset loaded", "source", src.Name(),
			"parts", len(program.Parts), "sentences", program.ItemCount())
	}

	if opts.Gloss != nil && cfg.Gloss.OnLoad && !program.Empty() {
		filled, stats, err := opts.Gloss.Fill(ctx, program)
		if err != nil {
			logger.Warn("chunk gloss aborted", "error", err)
		} else {
			program = filled
			if stats.Failed > 0 {
				notice = fmt.Sprintf("%d sentences are missing chunk meanings", stats.Failed)
			}
		}
	}

	ctrl := session.New(program, session.Config{
		Cooldown:     cfg.Quiz.Cooldown,
		MasterStreak: cfg.Quiz.MasterStreak,
		RoundCycling: cfg.Quiz.RoundCycling,
	}, opts.Clock)

	rec := persist.NewRecorder(opts.Snapshots, opts.Events, program.ID,
		persist.WithKeep(cfg.Store.KeepSnapshots),
		persist.WithClock(opts.Clock),
		persist.WithLogger(logger),
	)
	if ok, err := rec.Load(ctx, ctrl); err != nil {
		logger.Warn("restore progress failed", "error", err)
	} else if ok {
		logger.Info("progress restored", "view", ctrl.View(), "index", ctrl.Index())
	}

	return home.New(study.Deps{
		Controller: ctrl,
		Recorder:   rec,
		Speaker:    opts.Speaker,
		Logger:     logger,
	}, home.Options{Notice: notice, Events: opts.Events})
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	speaker speech.Speaker
	width   int
	height  int
}

// newAppModel creates a new AppModel starting at initial.
func newAppModel(initial screen.Screen, speaker speech.Speaker) AppModel {
	if speaker == nil {
		speaker = speech.Nop{}
	}
	return AppModel{
		router:  router.New(initial),
		speaker: speaker,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.speaker.Stop()
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = hp.KeyHints()
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run shows the loading screen, prepares the home screen in the
// background and runs the Bubble Tea program until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	loader := loading.New(ctx, func(ctx context.Context) screen.Screen {
		return Prepare(ctx, opts)
	})

	p := tea.NewProgram(newAppModel(loader, opts.Speaker), tea.WithContext(ctx))
	_, err := p.Run()
	opts.Speaker.Stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
