package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Turns faster than this show no elapsed time.
const showElapsedAfter = time.Second

type replyMsg struct {
	reply application.Reply
	err   error
}

// replySpinnerModel spins while the orchestrator handles one chat turn.
type replySpinnerModel struct {
	spinner spinner.Model
	label   string
	started time.Time
	elapsed time.Duration
	send    tea.Cmd
	reply   application.Reply
	err     error
	done    bool
}

func newReplySpinnerModel(stage domain.Stage, started time.Time, send tea.Cmd) replySpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return replySpinnerModel{
		spinner: s,
		label:   stageWorkLabel(stage),
		started: started,
		send:    send,
	}
}

// stageWorkLabel names what the orchestrator does with a message received
// at stage.
func stageWorkLabel(stage domain.Stage) string {
	switch stage {
	case domain.StageIntake:
		return "Reading your loan request"
	case domain.StageVerification:
		return "Checking the applicant directory"
	case domain.StageUnderwriting:
		return "Resuming underwriting"
	default:
		return "Working"
	}
}

func (m replySpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.send)
}

func (m replySpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.elapsed = msg.Time.Sub(m.started)
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case replyMsg:
		m.done = true
		m.reply = msg.reply
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m replySpinnerModel) View() string {
	if m.done {
		return ""
	}
	if m.elapsed < showElapsedAfter {
		return fmt.Sprintf("%s %s...", m.spinner.View(), m.label)
	}

	return fmt.Sprintf("%s %s... %ds", m.spinner.View(), m.label, int(m.elapsed/time.Second))
}

// awaitReply runs send behind a spinner labelled for the session's current
// stage and returns the orchestrator's reply.
func awaitReply(ctx context.Context, output io.Writer, stage domain.Stage, send func(context.Context) (application.Reply, error)) (application.Reply, error) {
	sendCmd := func() tea.Msg {
		reply, err := send(ctx)
		return replyMsg{reply: reply, err: err}
	}

	p := tea.NewProgram(
		newReplySpinnerModel(stage, time.Now(), sendCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.Reply{}, err
	}

	result, ok := finalModel.(replySpinnerModel)
	if !ok {
		return application.Reply{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.reply, result.err
}
