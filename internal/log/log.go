package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Init builds the process logger: JSON to stdout plus any extra sinks (log file).
func Init(level string, extra ...io.Writer) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		_ = lvl.UnmarshalText([]byte("info"))
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey:  "action",
		TimeKey:     "ts",
		LevelKey:    "level",
		EncodeTime:  zapcore.RFC3339TimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	})
	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	for _, w := range extra {
		if w != nil {
			sinks = append(sinks, zapcore.AddSync(w))
		}
	}
	l := zap.New(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), lvl))
	Use(l)
	return l, nil
}

// Use swaps the process logger; tests install an observer core here.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

func write(level zapcore.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := current.Load()
	ce := l.Check(level, action)
	if ce == nil {
		return
	}
	zf := make([]zap.Field, 0, 8)
	if c != nil {
		zf = append(zf,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			zf = append(zf, zap.String("req_id", rid))
		}
		if cid, ok := c.Locals("customer_id").(int64); ok && cid != 0 {
			zf = append(zf, zap.Int64("customer_id", cid))
		}
	}
	if err != nil {
		zf = append(zf, zap.String("err", err.Error()))
	}
	if len(fields) > 0 {
		zf = append(zf, zap.Any("fields", fields))
	}
	ce.Write(zf...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, c, action, nil, fields)
}

// Audit records state changes made on behalf of a customer.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, c, action, nil, withKind(fields, "audit"))
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.ErrorLevel, c, action, err, fields)
}

func withKind(fields map[string]any, kind string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["kind"] = kind
	return out
}

type accessWriter struct{}

func (accessWriter) Write(p []byte) (int, error) {
	current.Load().Info("http.access", zap.String("line", strings.TrimRight(string(p), "\n")))
	return len(p), nil
}

// Writer routes fiber's access log lines through the process logger.
func Writer() io.Writer { return accessWriter{} }
