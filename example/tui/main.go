package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/sdk/clock"
	"github.com/leandrodaf/midiclock/sdk/contracts"
	"github.com/leandrodaf/midiclock/sdk/midi"
)

// Range of the front panel's tempo slider.
const (
	sliderMin   = 40
	sliderMax   = 208
	sliderWidth = 42
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff"))
	beatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5a623")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

var (
	bpm     = flag.Int("bpm", 120, "initial tempo (40-208)")
	device  = flag.String("device", "", "send MIDI clock to the first destination whose name contains this")
	logFile = flag.String("log-file", "midiclock.log", "log file; the terminal belongs to the panel")
)

type model struct {
	clock    contracts.Clock
	events   chan contracts.ClockEvent
	tempo    int
	quarter  int
	barFlash bool
	err      string
	quitting bool
}

type clockMsg contracts.ClockEvent

// listenForBeats skips pulse events; the panel only redraws on beats and transport changes.
func listenForBeats(events <-chan contracts.ClockEvent) tea.Cmd {
	return func() tea.Msg {
		for ev := range events {
			if ev.Kind != contracts.PulseEvent {
				return clockMsg(ev)
			}
		}
		return nil
	}
}

func (m model) Init() tea.Cmd {
	return listenForBeats(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.clock.Stop()
			return m, tea.Quit

		case " ", "p":
			if m.clock.IsPlaying() {
				m.clock.Stop()
			} else {
				m.clock.Start()
			}

		case "+", "=", "up":
			m.setTempo(m.tempo + 1)

		case "-", "_", "down":
			m.setTempo(m.tempo - 1)

		case "right":
			m.setTempo(m.tempo + 10)

		case "left":
			m.setTempo(m.tempo - 10)
		}

	case clockMsg:
		switch msg.Kind {
		case contracts.QuarterNoteEvent:
			m.quarter = msg.Quarter
			m.barFlash = false
		case contracts.BarStartEvent:
			m.barFlash = true
		case contracts.TransportEvent:
			m.quarter, m.barFlash = 0, false
		}
		return m, listenForBeats(m.events)
	}

	return m, nil
}

func (m *model) setTempo(tempo int) {
	tempo = max(sliderMin, min(sliderMax, tempo))
	if err := m.clock.SetTempo(float64(tempo)); err != nil {
		m.err = err.Error()
		return
	}
	m.tempo, m.err = tempo, ""
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	state := dimStyle.Render("■ stopped")
	if m.clock.IsPlaying() {
		state = activeStyle.Render("▶ running")
	}

	var lights []string
	for beat := 0; beat < 4; beat++ {
		style := dimStyle
		if m.clock.IsPlaying() && m.quarter%4 == beat {
			style = activeStyle
			if m.barFlash {
				style = beatStyle
			}
		}
		lights = append(lights, style.Render("●"))
	}

	pos := (m.tempo - sliderMin) * (sliderWidth - 1) / (sliderMax - sliderMin)
	slider := dimStyle.Render(strings.Repeat("─", pos)) +
		beatStyle.Render("┃") +
		dimStyle.Render(strings.Repeat("─", sliderWidth-1-pos))

	bar, beat := m.quarter/4+1, m.quarter%4+1
	body := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s   %s BPM", state, activeStyle.Render(fmt.Sprintf("%3d", m.tempo))),
		"",
		strings.Join(lights, " ")+statusStyle.Render(fmt.Sprintf("   bar %d  beat %d", bar, beat)),
		"",
		fmt.Sprintf("%d %s %d", sliderMin, slider, sliderMax),
	)
	if m.err != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", beatStyle.Render(m.err))
	}

	help := statusStyle.Render("space play/stop · ↑/↓ ±1 · ←/→ ±10 · q quit")
	return panelStyle.Render(body) + "\n" + help + "\n"
}

func main() {
	flag.Parse()

	log := logger.NewZapLogger()
	log.SetDestination(contracts.FileLog, *logFile)
	defer log.Sync()

	tempo := max(sliderMin, min(sliderMax, *bpm))
	c, err := clock.NewClock(
		contracts.WithLogger(log),
		contracts.WithInitialTempo(float64(tempo)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clock:", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	if *device != "" {
		output, err := midi.NewClockOutput(contracts.WithOutputLogger(log), contracts.WithDeviceName(*device))
		if err != nil {
			fmt.Fprintln(os.Stderr, "midi output:", err)
			os.Exit(1)
		}
		bridge := midi.Attach(c, output, log)
		defer bridge.Close()
	}

	events := make(chan contracts.ClockEvent, 256)
	unsubscribe := c.Subscribe(events)
	defer unsubscribe()

	m := model{clock: c, events: events, tempo: tempo}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui:", err)
		os.Exit(1)
	}
}
