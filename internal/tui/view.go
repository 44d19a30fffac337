package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("snapsort") + "\n\n")

	switch m.phase {
	case phaseScan:
		b.WriteString(fmt.Sprintf("%s 正在扫描 %s ...\n", m.spin.View(), m.opts.SourceDir))

	case phaseConfirm:
		b.WriteString(labelStyle.Render("扫描完成") + "\n\n")
		b.WriteString(fmt.Sprintf("  源目录:   %s\n", m.opts.SourceDir))
		b.WriteString(fmt.Sprintf("  目标目录: %s\n", m.opts.TargetDir))
		b.WriteString(fmt.Sprintf("  模式:     %s\n", m.opts.Mode))
		b.WriteString(fmt.Sprintf("  文件数:   %d\n\n", m.total))
		if m.total == 0 {
			b.WriteString(dimStyle.Render("没有找到符合规则的截图，按任意键退出") + "\n")
		} else {
			b.WriteString(dimStyle.Render("enter 执行  │  p 预览  │  q 退出") + "\n")
		}

	case phaseRunning:
		title := "整理中"
		if m.preview {
			title = "预览中"
		}
		b.WriteString(labelStyle.Render(title) + "\n\n")
		b.WriteString("  " + m.bar.View() + "\n\n")
		if m.filename != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d  %s", m.current, m.total, m.filename)) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("ctrl+c 在当前文件后停止") + "\n")

	case phaseDone:
		title := "整理完成"
		if m.preview {
			title = "预览完成 (未做任何改动)"
		}
		if m.err != nil {
			title += "（运行被中断，以下为已完成部分）"
		}
		b.WriteString(okStyle.Render(title) + "\n\n")

		width := m.width - 6
		if width < 20 || width > 100 {
			width = 100
		}
		b.WriteString(reportStyle.Render(wordwrap.String(m.report, width)) + "\n\n")
		b.WriteString(dimStyle.Render("q 退出") + "\n")

	case phaseFailed:
		b.WriteString(errStyle.Render("运行失败") + "\n\n")
		b.WriteString("  " + m.err.Error() + "\n\n")
		b.WriteString(dimStyle.Render("q 退出") + "\n")
	}

	return b.String()
}
