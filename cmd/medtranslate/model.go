package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/medtranslate-core/core"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/gesture"
	"github.com/koscakluka/medtranslate-core/core/language"
)

// Slider geometry in terminal cells. The track spans sliderCells columns
// starting at sliderLeft on row sliderRow.
const (
	sliderRow   = 5
	sliderLeft  = 2
	sliderCells = 40

	defaultWidth = 72
)

var quickPhrases = []string{
	"Hello, I am your doctor.",
	"Where does it hurt?",
	"How long have you had these symptoms?",
	"Are you allergic to any medication?",
	"Thank you. Please wait here.",
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	onlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	thumbStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	recordingStyle = thumbStyle.Background(lipgloss.Color("9"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type eventMsg struct{ events.Event }

type sessionStartedMsg struct{ err error }

type model struct {
	orchestrator *orchestration.Orchestrator
	catalog      language.Catalog
	clinician    language.Code
	target       language.Code
	specialty    string
	track        gesture.Track

	spinner spinner.Model
	width   int
	pressed bool

	connected    bool
	status       string
	prompt       string
	direction    language.Direction
	position     float64
	recording    bool
	elapsed      time.Duration
	interim      string
	transcript   string
	translation  string
	question     string
	summary      string
	notification events.Notification
}

func newModel(o *orchestration.Orchestrator, catalog language.Catalog, target language.Code, specialty string) model {
	clinician := language.Code("en")
	if o != nil {
		clinician = o.Snapshot().Clinician
	}
	return model{
		orchestrator: o,
		catalog:      catalog,
		clinician:    clinician,
		target:       target,
		specialty:    specialty,
		track:        gesture.DefaultTrack(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:        defaultWidth,
		status:       string(orchestration.StatusReady),
		prompt:       orchestration.PromptIdle,
		direction:    language.DirectionFor(language.SideLeft, clinician, target),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(startSession(m.orchestrator, m.target), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case sessionStartedMsg:
		if msg.err != nil {
			m.notification = events.NewNotification(events.NotificationError, msg.err.Error(), msg.err)
		}

	case eventMsg:
		m.apply(msg.Event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.recording {
			m.orchestrator.StopRecording()
		} else {
			m.orchestrator.StartRecording()
		}
	case "left":
		m.orchestrator.SnapTo(language.SideLeft)
	case "right":
		m.orchestrator.SnapTo(language.SideRight)
	case "i":
		if err := m.orchestrator.StartPresetInterview(m.specialty); err != nil {
			m.notification = events.NewNotification(events.NotificationError, err.Error(), err)
		}
	case "n":
		if err := m.orchestrator.AdvanceInterview(); err != nil && err != orchestration.ErrNotReady {
			m.notification = events.NewNotification(events.NotificationError, err.Error(), err)
		}
	case "s":
		m.orchestrator.SkipInterview()
	case "1", "2", "3", "4", "5":
		phrase := quickPhrases[key[0]-'1']
		if err := m.orchestrator.SendPhrase(phrase); err != nil && err != orchestration.ErrNotReady {
			m.notification = events.NewNotification(events.NotificationError, err.Error(), err)
		}
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	x := cellToTrack(msg.X, m.track)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y != sliderRow || !onTrack(msg.X) {
			return
		}
		m.pressed = true
		m.orchestrator.PointerDown(x)
	case msg.Action == tea.MouseActionMotion && m.pressed:
		m.orchestrator.PointerMove(x)
	case msg.Action == tea.MouseActionRelease && m.pressed:
		m.pressed = false
		m.orchestrator.PointerUp(x)
	}
}

func (m *model) apply(event events.Event) {
	switch e := event.(type) {
	case events.StatusChanged:
		m.status = e.Status
	case events.PromptChanged:
		m.prompt = e.Prompt
	case events.ConnectionChanged:
		m.connected = e.Connected
	case events.DirectionChanged:
		m.direction = e.Direction
	case events.SliderMoved:
		m.position = e.Position
	case events.Notification:
		m.notification = e
	case events.RecordingStarted:
		m.recording = true
		m.interim = ""
	case events.RecordingElapsed:
		m.elapsed = e.Elapsed
	case events.RecordingStopped:
		m.recording = false
	case events.TranscriptInterimUpdated:
		m.interim = e.Transcript
	case events.TranscriptFinal:
		m.interim = ""
		m.transcript = e.Transcript
	case events.TranslationRequested:
		m.transcript = e.Text
	case events.TranslationReceived:
		m.translation = e.Text
	case events.InterviewStarted:
		m.summary = ""
	case events.InterviewQuestionAsked:
		m.question = fmt.Sprintf("Q%d: %s", e.StepIndex+1, e.Question)
	case events.InterviewCompleted:
		m.question = ""
		m.summary = e.Summary
	}
}

func (m model) View() string {
	var b strings.Builder
	width := max(m.width-2, sliderCells)

	connection := offlineStyle.Render("● offline")
	if m.connected {
		connection = onlineStyle.Render("● online")
	}
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render("MedTranslate"), connection)
	fmt.Fprintf(&b, "%s -> %s\n", m.catalog.Lookup(m.direction.From).Name, m.catalog.Lookup(m.direction.To).Name)

	indicator := " "
	if m.status != string(orchestration.StatusReady) {
		indicator = m.spinner.View()
	}
	fmt.Fprintf(&b, "%s %s  %s\n", indicator, m.status, mutedStyle.Render(formatElapsed(m.elapsed)))
	b.WriteString(m.prompt + "\n\n")

	// Row sliderRow.
	b.WriteString(m.slider() + "\n")
	fmt.Fprintf(&b, "%s%s%s\n\n",
		strings.Repeat(" ", sliderLeft),
		mutedStyle.Render(fmt.Sprintf("%-*s", sliderCells/2, m.catalog.Lookup(m.clinician).Name)),
		mutedStyle.Render(fmt.Sprintf("%*s", sliderCells-sliderCells/2, m.catalog.Lookup(m.target).Name)),
	)

	if m.interim != "" {
		b.WriteString(mutedStyle.Render(wordwrap.String(m.interim, width)) + "\n")
	}
	if m.transcript != "" {
		b.WriteString(wordwrap.String("> "+m.transcript, width) + "\n")
	}
	if m.translation != "" {
		b.WriteString(wordwrap.String("< "+m.translation, width) + "\n")
	}
	if m.question != "" {
		b.WriteString("\n" + wordwrap.String(m.question, width) + "\n")
	}
	if m.summary != "" {
		b.WriteString("\n" + wordwrap.String(m.summary, width))
	}
	if m.notification.Message != "" {
		b.WriteString("\n" + notificationStyle(m.notification.Level).Render(m.notification.Message) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("space record · ←/→ direction · 1-5 phrases · i interview · n next · s skip · q quit"))
	return b.String()
}

func (m model) slider() string {
	thumbCells := max(1, int(math.Round(m.track.ThumbWidth/m.track.Width*sliderCells)))
	offset := int(math.Round(m.position * float64(sliderCells-thumbCells)))
	offset = max(0, min(offset, sliderCells-thumbCells))

	style := thumbStyle
	if m.recording {
		style = recordingStyle
	}
	thumb := style.Render(centered("mic", thumbCells))

	return strings.Repeat(" ", sliderLeft-1) + "[" +
		strings.Repeat("─", offset) + thumb + strings.Repeat("─", sliderCells-thumbCells-offset) + "]"
}

// cellToTrack maps a terminal column to the middle of that cell in track
// units.
func cellToTrack(column int, track gesture.Track) float64 {
	return (float64(column-sliderLeft) + 0.5) / sliderCells * track.Width
}

func onTrack(column int) bool {
	return column >= sliderLeft && column < sliderLeft+sliderCells
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func formatElapsed(elapsed time.Duration) string {
	seconds := int(elapsed / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func notificationStyle(level events.NotificationLevel) lipgloss.Style {
	switch level {
	case events.NotificationError:
		return errorStyle
	case events.NotificationSuccess:
		return successStyle
	}
	return infoStyle
}
