package transcribe

import "context"

// Payload is one audio clip to transcribe. It lives only for the
// duration of the request and is never persisted.
type Payload struct {
	Data     []byte
	Duration int // seconds, 0 when unknown
}

func (p Payload) SizeMB() float64 {
	return float64(len(p.Data)) / (1024 * 1024)
}

type Backend interface {
	Transcribe(ctx context.Context, p Payload, language string) (string, error)
}

// Router picks a backend by clip characteristics. The primary backend
// is cheap but rejects payloads above a hard size ceiling and is not
// worth the job-submission overhead for very short clips; the secondary
// is the catch-all. Selection happens once per clip, with no fallback
// to the other backend on failure.
type Router struct {
	SizeLimitMB    float64
	MinDurationSec int
	Primary        Backend
	Secondary      Backend
}

func (r *Router) Pick(p Payload) Backend {
	if p.SizeMB() < r.SizeLimitMB && (p.Duration == 0 || p.Duration > r.MinDurationSec) {
		return r.Primary
	}
	return r.Secondary
}
