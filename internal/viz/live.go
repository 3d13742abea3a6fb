// Package viz renders a live terminal view of the running joint loop.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/metrics"
	"github.com/san-kum/jointsim/internal/sim"
	"github.com/san-kum/jointsim/internal/systems/jointctl"
	"github.com/san-kum/jointsim/internal/transport"
)

const (
	graphWidth      = 80
	graphHeight     = 10
	historyCapacity = 600
	targetStep      = 0.5
)

type TickMsg time.Time

// Model drives the simulation from UI ticks and plots the velocity trace.
// Target adjustments go through the transport node, the same path external
// commands take.
type Model struct {
	runner    *sim.Runner
	ctl       *jointctl.System
	node      *transport.Node
	collector *metrics.Collector
	topic     string
	joint     ecs.Entity

	dt            float64
	stepsPerFrame int
	frameRate     int

	measured []float64
	targets  []float64
	title    string
}

func NewModel(runner *sim.Runner, ctl *jointctl.System, node *transport.Node, collector *metrics.Collector, topic string, joint ecs.Entity, dt float64, frameRate int, title string) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	steps := int(1.0 / (float64(frameRate) * dt))
	if steps < 1 {
		steps = 1
	}
	return Model{
		runner:        runner,
		ctl:           ctl,
		node:          node,
		collector:     collector,
		topic:         topic,
		joint:         joint,
		dt:            dt,
		stepsPerFrame: steps,
		frameRate:     frameRate,
		measured:      make([]float64, 0, historyCapacity),
		targets:       make([]float64, 0, historyCapacity),
		title:         title,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.runner.SetPaused(!m.runner.Paused())
		case "up", "+":
			m.node.Publish(m.topic, m.ctl.Target()+targetStep)
		case "down", "-":
			m.node.Publish(m.topic, m.ctl.Target()-targetStep)
		case "r":
			m.ctl.Reset()
			if m.collector != nil {
				m.collector.Reset()
			}
			m.measured = m.measured[:0]
			m.targets = m.targets[:0]
		}
		return m, nil

	case TickMsg:
		for i := 0; i < m.stepsPerFrame; i++ {
			m.runner.Step(m.dt)
		}

		vel := 0.0
		if c := m.runner.ECM().Component(m.joint, ecs.JointVelocity); c != nil {
			vel = c[0]
		}
		m.measured = appendBounded(m.measured, vel)
		m.targets = appendBounded(m.targets, m.ctl.Target())

		return m, m.tick()
	}

	return m, nil
}

func appendBounded(series []float64, v float64) []float64 {
	if len(series) >= historyCapacity {
		series = series[1:]
	}
	return append(series, v)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")

	if len(m.measured) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{m.targets, m.measured},
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("velocity: target vs measured"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	vel := 0.0
	if len(m.measured) > 0 {
		vel = m.measured[len(m.measured)-1]
	}

	stats := []string{
		labelStyle.Render("sim time") + valueStyle.Render(fmt.Sprintf("%.3f s", m.runner.SimTime())),
		labelStyle.Render("target") + valueStyle.Render(fmt.Sprintf("%.3f", m.ctl.Target())),
		labelStyle.Render("measured") + valueStyle.Render(fmt.Sprintf("%.3f", vel)),
	}
	if m.runner.Paused() {
		stats = append(stats, pausedStyle.Render("PAUSED"))
	}
	b.WriteString(statsStyle.Render(strings.Join(stats, "\n")))

	b.WriteString(helpStyle.Render("\nspace pause · up/down adjust target · r reset · q quit"))
	return b.String()
}
