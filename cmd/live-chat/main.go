package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	live "github.com/koscakluka/live-core/core"
	"github.com/koscakluka/live-core/core/audio/miniaudio"
	"github.com/koscakluka/live-core/core/liveapi"
)

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	modelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	meterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	model := flag.String("model", "models/gemini-2.0-flash-exp", "live model identifier")
	voice := flag.Bool("voice", true, "request audio responses and play them back")
	search := flag.Bool("search", false, "enable search grounding")
	flag.Parse()

	sessionOptions := []live.SessionOption{
		live.WithTool(live.NewTool("render_altair", "Displays an altair graph in json format.",
			func(parameters struct {
				JSONGraph string `json:"json_graph" jsonschema_description:"JSON STRING representation of the graph to render."`
			}) (map[string]any, error) {
				log.Printf("graph received: %d bytes", len(parameters.JSONGraph))
				return nil, nil
			})),
	}

	if *voice {
		if sink, err := miniaudio.NewClient(); err != nil {
			// No playback device is not fatal: text keeps working.
			log.Printf("audio output unavailable: %v", err)
		} else {
			defer sink.Close()
			sessionOptions = append(sessionOptions, live.WithAudioOutput(sink))
		}
	}

	session := live.NewSession(sessionOptions...)
	defer session.Close()

	modalities := []liveapi.ResponseModality{liveapi.ModalityText}
	if *voice {
		modalities = []liveapi.ResponseModality{liveapi.ModalityAudio}
	}
	session.SetConfig(liveapi.SessionConfig{
		Model: *model,
		GenerationConfig: liveapi.GenerationConfig{
			ResponseModalities: modalities,
		},
		SystemInstruction: []string{
			"You are a helpful assistant talking to the user through a terminal chat.",
		},
		EnableSearch: *search,
	})

	if err := session.Connect(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(newChatModel(session), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run chat: %v\n", err)
		os.Exit(1)
	}
}

type chatEntry struct {
	speaker string
	text    string
}

type chatModel struct {
	session *live.Session

	input   textinput.Model
	entries []chatEntry

	seenUserMessages  int
	seenTextResponses int

	volume float64
	width  int
	height int
}

type tickMsg time.Time

func newChatModel(session *live.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message and press enter"
	input.Focus()

	return chatModel{session: session, input: input, width: 80, height: 24}
}

func (m chatModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.volume = m.session.Volume()

		userMessages := m.session.UserMessages()
		for _, text := range userMessages[m.seenUserMessages:] {
			m.entries = append(m.entries, chatEntry{speaker: "you", text: text})
		}
		m.seenUserMessages = len(userMessages)

		textResponses := m.session.TextResponses()
		for _, text := range textResponses[m.seenTextResponses:] {
			m.entries = append(m.entries, chatEntry{speaker: "model", text: text})
		}
		m.seenTextResponses = len(textResponses)

		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			_ = m.session.Disconnect()
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			if err := m.session.Send(text); err != nil {
				m.entries = append(m.entries, chatEntry{speaker: "error", text: err.Error()})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	var transcript strings.Builder
	for _, entry := range m.entries {
		var line string
		switch entry.speaker {
		case "you":
			line = userStyle.Render("you: ") + entry.text
		case "model":
			line = modelStyle.Render("model: ") + entry.text
		default:
			line = statusStyle.Render(entry.speaker+": ") + entry.text
		}
		transcript.WriteString(wordwrap.String(line, max(m.width-2, 20)))
		transcript.WriteString("\n")
	}

	status := "disconnected"
	if m.session.Connected() {
		status = "connected"
	}

	return fmt.Sprintf(
		"%s\n%s  %s\n%s\n",
		transcript.String(),
		statusStyle.Render(status),
		meterStyle.Render(volumeBar(m.volume)),
		m.input.View(),
	)
}

func volumeBar(volume float64) string {
	const width = 20
	filled := min(int(volume*float64(width)*4), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
