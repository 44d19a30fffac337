package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Verbose       bool
	EnableFile    bool
	EnableConsole bool
	LogLevel      zapcore.Level
	LogDir        string
	Component     string
}

// DefaultConfig 默认日志配置
func DefaultConfig() *Config {
	return &Config{
		Verbose:       false,
		EnableFile:    true,
		EnableConsole: true,
		LogLevel:      zapcore.InfoLevel,
		LogDir:        "./output/logs",
		Component:     "snapsort",
	}
}

// New 创建新的日志实例
func New(verbose bool) (*zap.Logger, error) {
	config := DefaultConfig()
	config.Verbose = verbose
	return NewWithConfig(config)
}

// NewWithConfig 使用配置创建日志实例
// 控制台默认只显示WARN及以上，避免污染报告输出；--verbose时放开到DEBUG。
// 文件日志始终记录全部级别（JSON格式）。
func NewWithConfig(config *Config) (*zap.Logger, error) {
	consoleLevel := zapcore.WarnLevel
	if config.Verbose {
		consoleLevel = zapcore.DebugLevel
	} else if config.LogLevel != zapcore.InfoLevel {
		consoleLevel = config.LogLevel
	}

	consoleConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core
	if config.EnableConsole {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(os.Stderr), consoleLevel))
	}
	if config.EnableFile {
		file, err := os.OpenFile(logFilePath(config), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(file), zapcore.DebugLevel))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// colorLevelEncoder 彩色级别编码器
func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var coloredLevel string
	switch level {
	case zapcore.DebugLevel:
		coloredLevel = color.CyanString("[DEBUG]")
	case zapcore.InfoLevel:
		coloredLevel = color.GreenString("[INFO] ")
	case zapcore.WarnLevel:
		coloredLevel = color.YellowString("[WARN] ")
	case zapcore.ErrorLevel:
		coloredLevel = color.RedString("[ERROR]")
	case zapcore.FatalLevel:
		coloredLevel = color.RedString("[FATAL]")
	default:
		coloredLevel = level.CapitalString()
	}
	enc.AppendString(coloredLevel)
}

// logFilePath 生成日志文件路径，目录创建失败时退到当前目录
func logFilePath(config *Config) string {
	logDir := config.LogDir
	if logDir == "" {
		logDir = "./output/logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logDir = "."
	}
	component := config.Component
	if component == "" {
		component = "snapsort"
	}
	timestamp := time.Now().Format("20060102")
	return filepath.Join(logDir, component+"_"+timestamp+".log")
}

// Named 为组件创建子日志器
func Named(parent *zap.Logger, component string) *zap.Logger {
	return parent.Named(component)
}
