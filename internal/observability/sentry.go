package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry DSN이 비어 있으면 no-op closer만 돌려준다
func InitSentry(dsn, env string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr nil이 아닌 에러만 보고
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
