package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mansoorceksport/restshop/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/mansoorceksport/restshop/internal/upload"

	// mimetype never needs more than this to classify images
	sniffLen = 3072
)

// Ingestor runs candidates through filter, path assignment and the size limiter
// before handing them to a FileStore. It holds no per-request state and is safe
// for concurrent use.
type Ingestor struct {
	cfg      Config
	filter   MediaTypeFilter
	paths    PathAssigner
	store    domain.FileStore
	outcomes metric.Int64Counter
}

// NewIngestor creates an ingestor writing accepted files to store
func NewIngestor(cfg Config, store domain.FileStore) *Ingestor {
	outcomes, err := otel.Meter(instrumentationName).Int64Counter("upload.outcomes",
		metric.WithDescription("Product image uploads by outcome"),
	)
	if err != nil {
		log.Warn("upload outcome counter unavailable", "err", err)
		outcomes = nil
	}

	return &Ingestor{
		cfg:      cfg,
		filter:   NewMediaTypeFilter(cfg.AcceptedMediaTypes),
		paths:    NewPathAssigner(cfg.UploadRoot),
		store:    store,
		outcomes: outcomes,
	}
}

// WithClock replaces the clock used for path assignment
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.paths = i.paths.WithClock(now)
	return i
}

// Config returns the limits the ingestor was built with
func (i *Ingestor) Config() Config {
	return i.cfg
}

// Ingest decides whether to keep c and, if so, streams it to the store.
// A nil candidate (no file part in the request) is reported as rejected.
func (i *Ingestor) Ingest(ctx context.Context, c *domain.UploadCandidate) domain.UploadOutcome {
	outcome := i.ingest(ctx, c)
	i.record(ctx, outcome)
	return outcome
}

func (i *Ingestor) ingest(ctx context.Context, c *domain.UploadCandidate) domain.UploadOutcome {
	if c == nil || c.Reader == nil {
		return domain.Rejected("no file provided")
	}
	if !i.filter.Accept(c.MediaType) {
		return domain.Rejected(fmt.Sprintf("media type %q is not accepted", c.MediaType))
	}

	dest, err := i.paths.Assign(c.OriginalName)
	if err != nil {
		return domain.Rejected(err.Error())
	}

	br := bufio.NewReaderSize(NewLimitReader(c.Reader, i.cfg.MaxBytes), sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.Failed(fmt.Errorf("read upload: %w", err))
	}
	detected := mimetype.Detect(head).String()

	n, err := i.store.Put(ctx, dest, br, c.MediaType)
	if err != nil {
		return domain.Failed(fmt.Errorf("store %s: %w", dest, err))
	}

	if !mimetype.EqualsAny(detected, c.MediaType) {
		log.Warn("declared media type does not match content",
			"path", dest, "declared", c.MediaType, "detected", detected)
	}

	return domain.Accepted(&domain.StoredFile{
		Path:         dest,
		MediaType:    c.MediaType,
		DetectedType: detected,
		Size:         n,
	})
}

func (i *Ingestor) record(ctx context.Context, outcome domain.UploadOutcome) {
	switch outcome.Status {
	case domain.UploadAccepted:
		log.Debug("upload stored", "path", outcome.File.Path, "size", outcome.File.Size)
	case domain.UploadRejected:
		log.Info("upload rejected", "reason", outcome.Reason)
	case domain.UploadFailed:
		log.Error("upload failed", "err", outcome.Err)
	}

	if i.outcomes != nil {
		i.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", outcome.Status.String())))
	}
}
