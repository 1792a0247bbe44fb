package automation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// EmailRecord is one outbound email, modeled as a side-effect record rather
// than a live delivery.
type EmailRecord struct {
	To      string
	Subject string
	Body    string
	Kind    string
}

// CommentRecord is one internal ticket comment.
type CommentRecord struct {
	Body        string
	TaggedUsers []string
	Kind        string
}

// FeedParams describes a feed to configure or cancel.
type FeedParams struct {
	DealerID      string
	DealerName    string
	FeedName      string
	FeedType      string
	InventoryType string
}

// FeedResult is the outcome of a feed configuration.
type FeedResult struct {
	FeedID  string
	FeedURL string
	Status  string
}

// EmailSink receives outbound emails.
type EmailSink interface {
	SendEmail(ctx context.Context, email EmailRecord) error
}

// CommentSink receives internal comments.
type CommentSink interface {
	PostInternalComment(ctx context.Context, comment CommentRecord) error
}

// FeedConfigurator provisions and cancels feeds.
type FeedConfigurator interface {
	ConfigureFeed(ctx context.Context, params FeedParams) (FeedResult, error)
	CancelFeed(ctx context.Context, params FeedParams) (FeedResult, error)
}

// CancellationLog is the durable, append-only cancellation trail. Appends
// must be atomic; rows are never updated or deleted.
type CancellationLog interface {
	Append(ctx context.Context, record domain.CancellationRecord) error
}

// Recorder implements every sink by retaining records in memory. It backs
// tests and the default (no external integration) deployment, where emails
// and feed changes are observable artifacts rather than live calls.
type Recorder struct {
	mu       sync.Mutex
	logger   *zap.Logger
	emails   []EmailRecord
	comments []CommentRecord
	feeds    []FeedResult
}

// NewRecorder builds a recorder. Logger may be nil.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

// SendEmail implements EmailSink.
func (r *Recorder) SendEmail(_ context.Context, email EmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, email)
	r.logger.Debug("email recorded", zap.String("to", email.To), zap.String("kind", email.Kind))
	return nil
}

// PostInternalComment implements CommentSink.
func (r *Recorder) PostInternalComment(_ context.Context, comment CommentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, comment)
	r.logger.Debug("internal comment recorded", zap.String("kind", comment.Kind))
	return nil
}

// ConfigureFeed implements FeedConfigurator.
func (r *Recorder) ConfigureFeed(_ context.Context, params FeedParams) (FeedResult, error) {
	result := FeedResult{
		FeedID:  FeedID(params.DealerID, params.FeedName),
		FeedURL: feedURL(params.DealerID, params.FeedName),
		Status:  "Active",
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds = append(r.feeds, result)
	r.logger.Debug("feed configured", zap.String("feed_id", result.FeedID))
	return result, nil
}

// CancelFeed implements FeedConfigurator.
func (r *Recorder) CancelFeed(_ context.Context, params FeedParams) (FeedResult, error) {
	result := FeedResult{
		FeedID: FeedID(params.DealerID, params.FeedName),
		Status: "Cancelled",
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds = append(r.feeds, result)
	r.logger.Debug("feed cancelled", zap.String("feed_id", result.FeedID))
	return result, nil
}

// Emails returns a copy of recorded emails.
func (r *Recorder) Emails() []EmailRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailRecord(nil), r.emails...)
}

// Comments returns a copy of recorded internal comments.
func (r *Recorder) Comments() []CommentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CommentRecord(nil), r.comments...)
}

// Feeds returns a copy of recorded feed changes.
func (r *Recorder) Feeds() []FeedResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FeedResult(nil), r.feeds...)
}

// MemoryCancellationLog is an in-memory append-only cancellation log.
type MemoryCancellationLog struct {
	mu      sync.Mutex
	records []domain.CancellationRecord
}

// NewMemoryCancellationLog builds an empty log.
func NewMemoryCancellationLog() *MemoryCancellationLog {
	return &MemoryCancellationLog{}
}

// Append implements CancellationLog.
func (l *MemoryCancellationLog) Append(_ context.Context, record domain.CancellationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// Records returns a copy of the log.
func (l *MemoryCancellationLog) Records() []domain.CancellationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.CancellationRecord(nil), l.records...)
}

// FeedID derives the identifier a feed carries in the provisioning system.
func FeedID(dealerID, feedName string) string {
	prefix := strings.ToUpper(strings.ReplaceAll(feedName, " ", ""))
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	if prefix == "" {
		prefix = "FEED"
	}
	return fmt.Sprintf("FEED-%s-%s", dealerID, prefix)
}

func feedURL(dealerID, feedName string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(feedName), " ", "-"))
	return fmt.Sprintf("https://feeds.dealerdesk.io/%s/%s", dealerID, slug)
}
