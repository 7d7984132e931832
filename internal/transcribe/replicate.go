package transcribe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/replicate/replicate-go"
)

type replicateAPI interface {
	ListModelVersions(ctx context.Context, owner, name string) (*replicate.Page[replicate.ModelVersion], error)
	Run(ctx context.Context, identifier string, input replicate.PredictionInput, webhook *replicate.Webhook) (replicate.PredictionOutput, error)
}

// Replicate runs transcription as a remote job. The service enforces a
// payload size ceiling, so the router only sends it small clips.
// https://github.com/replicate/replicate-python/issues/135
type Replicate struct {
	client replicateAPI
	owner  string
	name   string

	// The newest model version is pinned once and reused; versions
	// change rarely, so a TTL refresh is enough.
	mu        sync.Mutex
	versionID string
	fetchedAt time.Time
	ttl       time.Duration
}

func NewReplicate(token, model string, versionTTL time.Duration) (*Replicate, error) {
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("replicate model must be owner/name, got %q", model)
	}
	client, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to init replicate client: %w", err)
	}
	return &Replicate{client: client, owner: owner, name: name, ttl: versionTTL}, nil
}

// Transcribe submits the clip and waits for the job to finish. A
// connection-timeout class failure gets exactly one automatic retry;
// everything else, including a second timeout, surfaces to the caller.
func (r *Replicate) Transcribe(ctx context.Context, p Payload, language string) (string, error) {
	version, err := r.modelVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve model version: %w", err)
	}

	input := replicate.PredictionInput{
		"task":  "transcribe",
		"audio": dataURI(p.Data),
	}
	if language != "" {
		input["language"] = language
	}
	identifier := fmt.Sprintf("%s/%s:%s", r.owner, r.name, version)

	output, err := r.client.Run(ctx, identifier, input, nil)
	if err != nil && isTimeout(err) {
		log.Printf("replicate: timeout, trying one more time")
		output, err = r.client.Run(ctx, identifier, input, nil)
	}
	if err != nil {
		return "", fmt.Errorf("replicate run: %w", err)
	}
	return extractText(output)
}

// modelVersion returns the pinned latest version id, refreshing it from
// the remote registry once the TTL lapses. When a refresh fails but a
// previously pinned id exists, the stale pin keeps serving.
func (r *Replicate) modelVersion(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versionID != "" && time.Since(r.fetchedAt) < r.ttl {
		return r.versionID, nil
	}
	log.Printf("replicate: fetching model versions for %s/%s", r.owner, r.name)
	page, err := r.client.ListModelVersions(ctx, r.owner, r.name)
	if err != nil {
		if r.versionID != "" {
			log.Printf("replicate: version refresh failed, keeping %s: %v", r.versionID, err)
			return r.versionID, nil
		}
		return "", err
	}
	if len(page.Results) == 0 {
		return "", fmt.Errorf("model %s/%s has no versions", r.owner, r.name)
	}
	r.versionID = page.Results[0].ID
	r.fetchedAt = time.Now()
	return r.versionID, nil
}

func dataURI(data []byte) string {
	mt := mimetype.Detect(data)
	return fmt.Sprintf("data:%s;base64,%s", mt.String(), base64.StdEncoding.EncodeToString(data))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func extractText(output replicate.PredictionOutput) (string, error) {
	m, ok := output.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected replicate output type %T", output)
	}
	text, ok := m["text"].(string)
	if !ok {
		return "", fmt.Errorf("replicate output has no text field")
	}
	return text, nil
}
