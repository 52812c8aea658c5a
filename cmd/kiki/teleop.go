package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/servo"
)

const (
	teleopTick   = 50 * time.Millisecond
	headerHeight = 2
	legendHeight = 2
	footerHeight = 7
	maxLogs      = 5
	borderSize   = 2
)

var legColors = [servo.Count]string{"196", "226", "46", "51"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

// teleopKey binds a key to a fast-path request.
type teleopKey struct {
	label string
	req   func() action.Request
	mood  emotions.Label
}

func fast(kind action.Kind, steps, speed int) func() action.Request {
	return func() action.Request { return action.NewRequest(kind, steps, speed) }
}

var teleopKeys = map[string]teleopKey{
	"w":     {"walk", fast(action.KindWalk, 1, 150), ""},
	"up":    {"walk", fast(action.KindWalk, 1, 150), ""},
	"s":     {"back", fast(action.KindWalkBack, 1, 150), ""},
	"down":  {"back", fast(action.KindWalkBack, 1, 150), ""},
	"a":     {"left", fast(action.KindTurnLeft, 1, 150), ""},
	"left":  {"left", fast(action.KindTurnLeft, 1, 150), ""},
	"d":     {"right", fast(action.KindTurnRight, 1, 150), ""},
	"right": {"right", fast(action.KindTurnRight, 1, 150), ""},
	"j":     {"sit", fast(action.KindSit, 1, 500), ""},
	"l":     {"lie", fast(action.KindLie, 1, 1000), ""},
	" ":     {"jump", fast(action.KindJump, 1, 200), ""},
	"b":     {"bow", fast(action.KindBow, 1, 2000), ""},
	"1":     {"dance", fast(action.KindDance, 2, 200), emotions.Happy},
	"2":     {"wave", fast(action.KindWaveRightFoot, 3, 50), ""},
	"3":     {"dance 4 feet", fast(action.KindDance4Feet, 2, 300), emotions.Happy},
	"4":     {"swing", fast(action.KindSwing, 4, 6), emotions.Happy},
	"5":     {"stretch", fast(action.KindStretch, 1, 15), emotions.Sleepy},
	"6":     {"scratch", fast(action.KindScratch, 3, 50), ""},
	"h":     {"home", fast(action.KindHome, 1, 500), ""},
}

type tickMsg time.Time

type doneMsg struct {
	label string
	err   error
}

type teleopModel struct {
	dog      *dog
	chart    *streamlinechart.Model
	width    int
	height   int
	busy     string
	logs     []string
	emotion  int
	quitting bool
}

func newTeleopModel(d *dog) teleopModel {
	chart := streamlinechart.New(80, 20, streamlinechart.WithYRange(0, 180))
	for _, leg := range servo.Legs() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(legColors[leg]))
		chart.SetDataSetStyles(leg.String(), runes.ThinLineStyle, style)
	}
	return teleopModel{dog: d, chart: &chart}
}

func tick() tea.Cmd {
	return tea.Tick(teleopTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *teleopModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *teleopModel) resizeChart() {
	w := m.width - borderSize - 2
	if w < 40 {
		w = 40
	}
	h := m.height - headerHeight - legendHeight - footerHeight - borderSize
	if h < 10 {
		h = 10
	}
	m.chart.Resize(w, h)
}

// perform runs a fast-path request off the UI goroutine.
func (m teleopModel) perform(k teleopKey) tea.Cmd {
	ctrl := m.dog.ctrl
	return func() tea.Msg {
		err := ctrl.Do(context.Background(), k.req(), k.mood)
		return doneMsg{label: k.label, err: err}
	}
}

func (m teleopModel) Init() tea.Cmd {
	return tick()
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "x":
			// Stop interrupts a running motion, so it is always accepted.
			if err := m.dog.ctrl.Stop(); err != nil {
				m.addLog("stop: " + err.Error())
			} else {
				m.addLog("🛑 stop")
			}
			return m, nil
		case "e":
			m.emotion = (m.emotion + 1) % len(emotions.IdleSet)
			label := emotions.IdleSet[m.emotion]
			_ = m.dog.ctrl.SetEmotion(string(label))
			m.addLog("🎭 " + string(label))
			return m, nil
		}

		k, ok := teleopKeys[key]
		if !ok || m.busy != "" {
			return m, nil
		}
		m.busy = k.label
		return m, m.perform(k)

	case doneMsg:
		m.busy = ""
		if msg.err != nil {
			m.addLog(fmt.Sprintf("%s: %v", msg.label, msg.err))
		} else {
			m.addLog("✅ " + msg.label)
		}
		return m, nil

	case tickMsg:
		pose := m.dog.engine.Commanded()
		for _, leg := range servo.Legs() {
			m.chart.PushDataSet(leg.String(), pose[leg])
		}
		m.chart.DrawAll()
		return m, tick()
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Teleop stopped.\n"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Kiki Teleop"))
	if m.busy != "" {
		sb.WriteString("  " + busyStyle.Render("▶ "+m.busy))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 40))

	lines := statusStyle.Render("wasd/arrows move · j sit · l lie · space jump · b bow · 1-6 tricks · h home · x stop · e emotion · q quit")
	if len(m.logs) > 0 {
		lines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(lines))
	sb.WriteString("\n")
	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, leg := range servo.Legs() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(legColors[leg])).Bold(true)
		items = append(items, style.Render("━━")+" "+leg.String())
	}
	return strings.Join(items, "   ")
}

var teleopLogFile string

var teleopCmd = &cobra.Command{
	Use:   "teleop",
	Short: "Drive the dog from the keyboard with a live chart of leg angles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The TUI owns the terminal.
		var logOut io.Writer = io.Discard
		if teleopLogFile != "" {
			f, err := os.OpenFile(teleopLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			logOut = f
		}
		log.InitWriter(logOut, cfg.LogLevel)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		d, err := bootstrap(ctx, cfg, bootstrapOptions{})
		if err != nil {
			return err
		}
		defer d.Close()
		go d.run(ctx)

		_, err = tea.NewProgram(newTeleopModel(d), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	teleopCmd.Flags().StringVar(&teleopLogFile, "log-file", "", "write logs to this file while the TUI runs")
}
