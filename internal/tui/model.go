// Package tui 实现交互式整理界面（Bubble Tea）。
//
// 流程: 扫描 → 确认 → 运行(进度条) → 报告。
// 管道在后台goroutine里跑，进度通过 tea.Program.Send 回注消息循环，
// 同一时刻至多一个运行。
package tui

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"snapsort/core/organizer"
)

// phase 界面阶段
type phase int

const (
	phaseScan phase = iota
	phaseConfirm
	phaseRunning
	phaseDone
	phaseFailed
)

// Model 主模型
type Model struct {
	opts    organizer.Options
	logger  *zap.Logger
	program atomic.Pointer[tea.Program]

	phase   phase
	files   []string
	preview bool

	spin spinner.Model
	bar  progress.Model

	current  int
	total    int
	filename string

	result *organizer.OrganizeResult
	report string
	err    error

	cancel context.CancelFunc
	width  int
	height int
}

// New 创建初始模型
func New(opts organizer.Options, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return &Model{
		opts:   opts,
		logger: logger,
		phase:  phaseScan,
		spin:   sp,
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

// SetProgram 注入program引用，后台goroutine用它回发消息
// 必须在 Program.Run 之前调用
func (m *Model) SetProgram(p *tea.Program) { m.program.Store(p) }

// send 把消息回注到消息循环，program未就绪时丢弃
func (m *Model) send(msg tea.Msg) {
	if p := m.program.Load(); p != nil {
		p.Send(msg)
	}
}

// Init 启动时开始扫描
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.scanCmd())
}

// Run 装配并运行整个TUI
func Run(opts organizer.Options, logger *zap.Logger) error {
	model := New(opts, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)
	_, err := p.Run()
	return err
}
