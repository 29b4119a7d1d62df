// internal/logger/logger.go
//
// Structured audit logger (Zap + Lumberjack).
//
// Context
// -------
// The registry appends one JSON line per notable event — lookups, DDL
// steps, CRUD writes, exports — to `<root>/logs/registry.log`.  When
// running in an interactive TTY the same events are teed, colorized,
// to stdout.  Rotation, compression, and retention are handled by
// Lumberjack; no external log-rotate job is required.
//
// The audit log is best-effort: sink write failures are routed back
// into the same sink via `ErrorOutput` and never reach the operator.
// No operation ever fails because its audit line could not be written.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, runningInTTY())
//	if err != nil { … }
//	log.Infow("record created", "event", "CRUD_CREATE", "id", id)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Every audit line carries an `event` category field plus free-text
//   detail fields.
// • Oxford commas, two spaces after periods.
package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger that writes JSON to
// /logs/registry.log.  When tee == true, a colored console core is
// also attached.  The logger is installed as the process-wide default
// via zap.ReplaceGlobals.
func New(rootDir string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "registry.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,  // keep last five files
		MaxAge:     30, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	jsonCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(fileSink),
		zap.InfoLevel,
	)

	cores := []zapcore.Core{jsonCore}

	if tee {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			zap.InfoLevel,
		)
		cores = append(cores, consoleCore)
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	// Make this the global logger so zap.L() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	return z, nil
}

// Nop returns a logger that discards everything.  Default for unit
// tests that do not assert on audit output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
