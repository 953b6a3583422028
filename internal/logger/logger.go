package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	FilePath string // пустой путь - логи только в stdout
	MaxSize  int    // мегабайты до ротации файла
	MaxAge   int    // дни хранения старых файлов
	Level    string
	AppName  string
}

// Logger - JSON-логгер на zap с ротацией файла через lumberjack.
// Передается явно как зависимость, не глобальное состояние.
type Logger struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config) *Logger {
	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	if cfg.FilePath != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: 7,
			MaxAge:     cfg.MaxAge,
			Compress:   false,
		}))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		parseLevel(cfg.Level),
	)

	return &Logger{
		cfg:    cfg,
		logger: zap.New(core),
	}
}

// NewNop returns a logger that discards everything. For tests.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zap.InfoLevel
	}
	return l
}

// Добавляет имя сервиса в начало полей
func (l *Logger) unshift(fields []zap.Field) []zap.Field {
	if l.cfg.AppName == "" {
		return fields
	}
	return append([]zap.Field{zap.String("service", l.cfg.AppName)}, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, l.unshift(fields)...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.logger.Error(msg, l.unshift(fields)...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, l.unshift(fields)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, l.unshift(fields)...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.logger.Fatal(msg, l.unshift(fields)...)
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}
