package config

import "github.com/spf13/viper"

// setDefaults 设置所有配置项的默认值
// 默认源/目标沿用macOS截图的惯例位置，通过~前缀在加载后展开
func setDefaults(v *viper.Viper) {
	// 整理设置
	v.SetDefault("organize.source_dir", "~/Desktop")
	v.SetDefault("organize.target_dir", "~/Desktop/Screenshots")
	v.SetDefault("organize.pattern", "")
	v.SetDefault("organize.extensions", []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"})
	v.SetDefault("organize.recursive", false)
	v.SetDefault("organize.keep_original", false)
	v.SetDefault("organize.mode", "optimize+move")

	// 外部工具
	v.SetDefault("tools.pngquant_path", "")
	v.SetDefault("tools.timeout_seconds", 30)

	// 日志
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_file", true)
	v.SetDefault("logging.enable_console", true)
	v.SetDefault("logging.log_dir", "./output/logs")

	// 高级
	v.SetDefault("advanced.enable_hot_reload", false)
	v.SetDefault("advanced.preview_workers", 0)
}
