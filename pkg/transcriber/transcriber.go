package transcriber

import (
	"context"
	"errors"
	"time"
)

// Result is the structured outcome of a transcription. A failed run never
// produces a Result; failures travel on the error path so callers can't
// mistake an error message for transcript text.
type Result struct {
	Text     string
	Language string
	Elapsed  time.Duration
}

// ErrTimeout reports that the service did not answer within the caller's
// deadline. Distinct from other failures so callers can surface it as such.
var ErrTimeout = errors.New("transcriber: deadline exceeded")

// Service transcribes one audio file, synchronously. Implementations honor
// ctx cancellation and return ErrTimeout (possibly wrapped) when the
// deadline expires mid-request.
type Service interface {
	Vendor() string
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// timeoutErr maps context expiry onto ErrTimeout, keeping the original
// error chained for logs.
func timeoutErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}
