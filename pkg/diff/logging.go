package diff

import (
	"time"

	"github.com/go-kit/kit/log"
)

// Middleware decorates a Comparer.
type Middleware func(Comparer) Comparer

// LoggingMiddleware returns a middleware that logs every comparison,
// including the types compared, the number of deltas, and duration.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Comparer) Comparer {
		return loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   Comparer
	logger log.Logger
}

func (mw loggingMiddleware) Compare(from, to interface{}) (res *Result, err error) {
	defer func(begin time.Time) {
		deltas := 0
		if res != nil {
			deltas = len(res.Deltas)
		}
		mw.logger.Log(
			"method", "Compare",
			"from", typeName(from),
			"to", typeName(to),
			"deltas", deltas,
			"err", err,
			"took", time.Since(begin),
		)
	}(time.Now())
	return mw.next.Compare(from, to)
}
