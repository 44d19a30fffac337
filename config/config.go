package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config 应用配置结构
type Config struct {
	// 整理设置
	Organize OrganizeConfig `mapstructure:"organize"`

	// 外部工具设置
	Tools ToolsConfig `mapstructure:"tools"`

	// 日志设置
	Logging LoggingConfig `mapstructure:"logging"`

	// 高级设置
	Advanced AdvancedConfig `mapstructure:"advanced"`
}

// OrganizeConfig 截图整理配置
// 源/目标目录是显式配置值，核心管道不做任何隐藏的home目录查找
type OrganizeConfig struct {
	// 源目录（默认 ~/Desktop）
	SourceDir string `mapstructure:"source_dir"`

	// 目标目录（默认 ~/Desktop/Screenshots）
	TargetDir string `mapstructure:"target_dir"`

	// 文件名日期模式（三个捕获组：年、月、日）
	Pattern string `mapstructure:"pattern"`

	// 扩展名白名单
	Extensions []string `mapstructure:"extensions"`

	// 是否递归扫描子目录
	Recursive bool `mapstructure:"recursive"`

	// 是否保留原件（复制语义）
	KeepOriginal bool `mapstructure:"keep_original"`

	// 运行模式: optimize+move, optimize+copy, move, copy
	Mode string `mapstructure:"mode"`
}

// ToolsConfig 外部工具配置
type ToolsConfig struct {
	// pngquant可执行文件路径，空表示在PATH中查找
	PngquantPath string `mapstructure:"pngquant_path"`

	// 单次工具调用超时（秒）
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	// 日志级别 (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// 是否启用文件日志
	EnableFile bool `mapstructure:"enable_file"`

	// 是否启用控制台日志
	EnableConsole bool `mapstructure:"enable_console"`

	// 日志目录
	LogDir string `mapstructure:"log_dir"`
}

// AdvancedConfig 高级配置
type AdvancedConfig struct {
	// 是否启用配置热重载
	EnableHotReload bool `mapstructure:"enable_hot_reload"`

	// 预览模式路径估算并发度，0表示CPU核心数
	PreviewWorkers int `mapstructure:"preview_workers"`
}

// Manager 配置管理器
type Manager struct {
	config     *Config
	viper      *viper.Viper
	logger     *zap.Logger
	mutex      sync.RWMutex
	configFile string
}

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config [%s]: %s (got: %v)", e.Field, e.Message, e.Value)
}

// NewManager 创建配置管理器并加载配置
func NewManager(configFile string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		viper:      viper.New(),
		logger:     logger,
		configFile: configFile,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// load 加载配置：默认值 → 配置文件 → 环境变量
func (m *Manager) load() error {
	setDefaults(m.viper)

	if m.configFile != "" {
		m.viper.SetConfigFile(m.configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		m.viper.AddConfigPath(home)
		m.viper.AddConfigPath(".")
		m.viper.SetConfigName(".snapsort")
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix("SNAPSORT")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// 配置文件不存在时直接用默认配置
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return err
	}
	if err := validate(&config); err != nil {
		return err
	}

	m.mutex.Lock()
	m.config = &config
	m.mutex.Unlock()
	return nil
}

// Get 获取当前配置
func (m *Manager) Get() *Config {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.config
}

// ConfigFileUsed 返回实际加载的配置文件路径，未找到时为空串
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// EnableHotReload 启用配置热重载（仅在advanced.enable_hot_reload时生效）
func (m *Manager) EnableHotReload() {
	if !m.Get().Advanced.EnableHotReload {
		return
	}
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		if err := m.load(); err != nil {
			m.logger.Error("config reload failed", zap.Error(err))
			return
		}
		m.logger.Info("config reloaded", zap.String("file", e.Name))
	})
	m.viper.WatchConfig()
}

// validate 验证配置
func validate(c *Config) error {
	if c.Organize.SourceDir == "" {
		return &ValidationError{Field: "organize.source_dir", Value: "", Message: "must not be empty"}
	}
	if c.Organize.TargetDir == "" {
		return &ValidationError{Field: "organize.target_dir", Value: "", Message: "must not be empty"}
	}
	if c.Tools.TimeoutSeconds <= 0 {
		return &ValidationError{Field: "tools.timeout_seconds", Value: c.Tools.TimeoutSeconds, Message: "must be positive"}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn or error"}
	}
	return nil
}

// expandHome 把路径里的前导~替换为home目录
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}

// ResolvedSourceDir 返回展开~之后的源目录
func (c *Config) ResolvedSourceDir() string { return expandHome(c.Organize.SourceDir) }

// ResolvedTargetDir 返回展开~之后的目标目录
func (c *Config) ResolvedTargetDir() string { return expandHome(c.Organize.TargetDir) }
