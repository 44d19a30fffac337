package ui

import (
	"os"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// TermWidth 终端宽度，探测失败时退到80列
func TermWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// DisplayBanner 显示区块标题
func DisplayBanner(title string) {
	pterm.DefaultSection.Println(title)
}

// Printf 统一的格式化输出入口
func Printf(format string, args ...interface{}) {
	pterm.Printf(format, args...)
}

// Println 统一的行输出入口
func Println(args ...interface{}) {
	pterm.Println(args...)
}

// Success 成功提示
func Success(msg string) {
	pterm.Success.Println(msg)
}

// Warning 警告提示
func Warning(msg string) {
	pterm.Warning.Println(msg)
}

// Error 错误提示
func Error(msg string) {
	pterm.Error.Println(msg)
}

// clipLines 按显示宽度逐行裁剪报告文本。宽度以终端单元格计，
// CJK字符占两格，超宽行以"..."结尾，不会把多字节字符切成两半
func clipLines(body string, width int) string {
	if width < 20 {
		width = 20
	}
	limit := uint(width - 4)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		b.WriteString(truncate.StringWithTail(line, limit, "..."))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderReport 把报告文本按终端宽度裁剪后输出到框里
func RenderReport(title, body string) {
	pterm.DefaultBox.WithTitle(title).Println(clipLines(body, TermWidth()))
}

// ProgressBar 进度条包装，batch模式下禁用时退化为行输出
type ProgressBar struct {
	bar      *pterm.ProgressbarPrinter
	disabled bool
}

// NewProgressBar 创建进度条；disabled时所有调用都打印简单行
func NewProgressBar(total int, title string, disabled bool) *ProgressBar {
	if disabled || total == 0 {
		return &ProgressBar{disabled: true}
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithMaxWidth(TermWidth()).
		Start()
	if err != nil {
		return &ProgressBar{disabled: true}
	}
	return &ProgressBar{bar: bar}
}

// Step 推进一格并更新标题
func (p *ProgressBar) Step(current, total int, filename string) {
	if p.disabled {
		pterm.Printf("Processing %d/%d: %s\n", current, total, filename)
		return
	}
	p.bar.UpdateTitle(filename)
	p.bar.Increment()
}

// Stop 结束进度条
func (p *ProgressBar) Stop() {
	if p.disabled || p.bar == nil {
		return
	}
	p.bar.Stop()
}
