package lib

import (
	"io"
	"os"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15:04:05"

type LoggerConfig struct {
	Level    string
	Color    bool
	IsProd   bool
	JSON     bool
	FilePath string // empty disables file output
}

type Logger struct {
	*zap.SugaredLogger
}

func NewLogger(cfg LoggerConfig) (*Logger, error) {
	log, err := newLogger(cfg, nil)
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: log.Sugar()}, nil
}

// NewLoggerMemory duplicates console output into wr, used to inspect logs in tests
func NewLoggerMemory(cfg LoggerConfig, wr io.Writer) (*Logger, error) {
	log, err := newLogger(cfg, wr)
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: log.Sugar()}, nil
}

// NewTestLogger logs only to stdout
func NewTestLogger() *Logger {
	log, _ := newLogger(LoggerConfig{Level: "debug"}, nil)
	return &Logger{SugaredLogger: log.Sugar()}
}

func (l *Logger) Named(name string) interfaces.ILogger {
	return &Logger{l.SugaredLogger.Named(name)}
}

func (l *Logger) With(args ...interface{}) interfaces.ILogger {
	return &Logger{l.SugaredLogger.With(args...)}
}

func newLogger(cfg LoggerConfig, extraWriter io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	cores := []zapcore.Core{newConsoleCore(level, cfg)}

	if cfg.FilePath != "" {
		fileCore, err := newFileCore(cfg)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	if extraWriter != nil {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(extraWriter), level))
	}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if !cfg.IsProd {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func newConsoleCore(level zapcore.Level, cfg LoggerConfig) zapcore.Core {
	encoderCfg := newEncoderCfg(cfg.IsProd, cfg.Color && !cfg.JSON)
	return zapcore.NewCore(newEncoder(encoderCfg, cfg.JSON), zapcore.AddSync(os.Stdout), level)
}

// newFileCore always writes debug level, console level is controlled separately
func newFileCore(cfg LoggerConfig) (zapcore.Core, error) {
	encoderCfg := newEncoderCfg(cfg.IsProd, false)
	if !cfg.JSON {
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}

	return zapcore.NewCore(newEncoder(encoderCfg, cfg.JSON), zapcore.AddSync(file), zapcore.DebugLevel), nil
}

func newEncoderCfg(isProd bool, color bool) zapcore.EncoderConfig {
	var encoderCfg zapcore.EncoderConfig
	if isProd {
		encoderCfg = zap.NewProductionEncoderConfig()
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	}
	if color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return encoderCfg
}

func newEncoder(cfg zapcore.EncoderConfig, isJSON bool) zapcore.Encoder {
	if isJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}
