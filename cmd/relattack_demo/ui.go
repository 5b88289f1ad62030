package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type uiModel struct {
	textarea  textarea.Model
	viewport  viewport.Model
	submitted bool
	eval      *evaluation
	err       error
}

func newUIModel() *uiModel {
	ta := textarea.New()
	ta.Placeholder = "Candidate prompt:"
	ta.Focus()

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Margin(1, 2).
		Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("99"))

	return &uiModel{
		textarea: ta,
		viewport: vp,
		eval:     buildEvaluation(),
	}
}

func (m *uiModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd  tea.Cmd
		vpCmd  tea.Cmd
		cmds   []tea.Cmd
		resize bool
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc:
			return m, tea.Quit
		case msg.Type == tea.KeyCtrlL:
			m.textarea.Reset()

		case msg.Type == tea.KeyCtrlD && !m.submitted: // Ctrl+D to score the prompt
			m.submitted = true
			report, err := m.scorePrompt()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.viewport.SetContent(report)
			m.textarea.Blur()

		case m.submitted && msg.Type == tea.KeyEnter: // Enter while submitted to edit
			m.submitted = false
			m.textarea.Focus()
		}

	case tea.WindowSizeMsg:
		resize = true
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3 // Account for textarea and margins
		m.textarea.SetWidth(msg.Width - 4) // Account for textarea margins
		m.textarea.SetHeight(msg.Height - 8)
	}

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	if resize {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(append(cmds, taCmd)...)
}

// scorePrompt evaluates the typed prompt against the configured split and
// returns the report shown in the viewport.
func (m *uiModel) scorePrompt() (string, error) {
	prompt := strings.TrimSpace(m.textarea.Value())
	reward, accuracy, err := m.eval.reward.EvaluatePrompt(context.Background(), prompt, m.eval.dataset)
	if err != nil {
		return "", err
	}
	if err = m.eval.recordScore(prompt, reward); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Prompt: %q\nDataset: %s/%s (%s examples)\nReward: %.2f\nAccuracy: %.1f%%\nPrompts scored this checkpoint: %s",
		prompt,
		m.eval.datasetName, m.eval.split,
		humanize.Comma(int64(m.eval.dataset.Len())),
		reward,
		100*accuracy,
		humanize.Comma(int64(m.eval.scores.NumLeaves())),
	), nil
}

func (m *uiModel) View() string {
	if m.submitted {
		return fmt.Sprintf("\n%s\n\nPress Enter to score another prompt...", m.viewport.View())
	}

	return fmt.Sprintf(
		"\n%s\n\n"+
			"\t• Ctrl+C or ESC to quit;\n"+
			"\t• Ctrl+D to score the prompt;\n"+
			"\t• Ctrl+L to clear the prompt.\n",
		m.textarea.View(),
	)
}
