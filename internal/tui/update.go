package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"snapsort/core/organizer"
)

// scanDoneMsg 扫描结束
type scanDoneMsg struct {
	files []string
	err   error
}

// progressMsg 管道进度，由后台goroutine通过Send回注
type progressMsg struct {
	current  int
	total    int
	filename string
}

// runDoneMsg 运行结束
type runDoneMsg struct {
	result *organizer.OrganizeResult
	err    error
}

// scanCmd 扫描源目录
func (m *Model) scanCmd() tea.Cmd {
	opts := m.opts
	logger := m.logger
	return func() tea.Msg {
		pipeline, err := organizer.NewPipeline(opts, logger)
		if err != nil {
			return scanDoneMsg{err: err}
		}
		files, err := pipeline.Scan()
		return scanDoneMsg{files: files, err: err}
	}
}

// startRun 在后台goroutine里跑管道，进度经由Send回注消息循环
func (m *Model) startRun(preview bool) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	opts := m.opts

	go func() {
		pipeline, err := organizer.NewPipeline(opts, m.logger)
		if err != nil {
			m.send(runDoneMsg{err: err})
			return
		}
		pipeline.SetProgressSink(organizer.ProgressFunc(func(current, total int, filename string) {
			m.send(progressMsg{current: current, total: total, filename: filename})
		}))
		result, err := pipeline.Run(ctx, preview)
		m.send(runDoneMsg{result: result, err: err})
	}()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 8
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth > 0 {
			m.bar.Width = barWidth
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case scanDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseFailed
			return m, nil
		}
		m.files = msg.files
		m.total = len(msg.files)
		m.phase = phaseConfirm
		return m, nil

	case progressMsg:
		m.current = msg.current
		m.total = msg.total
		m.filename = msg.filename
		if msg.total > 0 {
			return m, m.bar.SetPercent(float64(msg.current) / float64(msg.total))
		}
		return m, nil

	case runDoneMsg:
		m.cancel = nil
		if msg.err != nil && msg.result == nil {
			m.err = msg.err
			m.phase = phaseFailed
			m.logger.Error("tui run failed", zap.Error(msg.err))
			return m, nil
		}
		// 中断时result带着已完成的部分，照常出报告
		m.result = msg.result
		m.err = msg.err
		m.report = organizer.Summarize(msg.result)
		m.phase = phaseDone
		return m, m.bar.SetPercent(1.0)
	}

	return m, nil
}

// updateKeys 按键处理，按阶段分派
func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// 运行中Ctrl+C先取消管道，在文件边界停下
	if key == "ctrl+c" {
		if m.phase == phaseRunning && m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.phase {
	case phaseConfirm:
		switch key {
		case "enter", "y":
			if m.total == 0 {
				return m, tea.Quit
			}
			m.preview = false
			m.phase = phaseRunning
			return m, m.startRun(false)
		case "p":
			if m.total == 0 {
				return m, tea.Quit
			}
			m.preview = true
			m.phase = phaseRunning
			return m, m.startRun(true)
		case "q", "esc":
			return m, tea.Quit
		}

	case phaseDone, phaseFailed:
		switch key {
		case "q", "esc", "enter":
			return m, tea.Quit
		}
	}

	return m, nil
}
