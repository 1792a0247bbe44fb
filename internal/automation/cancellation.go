package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// Step names for the cancellation workflow.
const (
	StepNameAckThirdParty       = "AcknowledgeThirdParty"
	StepNameEmailCancelApproval = "EmailCancellationApproval"
	StepNameRepInitiated        = "RepInitiated"
	StepNameCancelFeed          = "CancelFeed"
	StepNameLogCancellation     = "LogCancellation"
	StepNameNotifySyndicator    = "NotifySyndicator"
	StepNameSkipNotify          = "SkipNotify"
)

// cancellationMachine builds the Product Cancellation workflow:
// Start -> RequesterCheck -> CancelledInSystem -> Logged -> Notified ->
// Closed. The requester check splits the rep path (cancel immediately) from
// the third-party path (approval gate first).
func (e *Engine) cancellationMachine() machine {
	return machine{transitions: map[State]transition{
		StateStart:          e.cancellationRequesterCheck,
		StateRequesterCheck: e.cancellationCancelFeed,
		StateCancelled:      e.cancellationLog,
		StateLogged:         e.cancellationNotify,
		StateNotified:       e.cancellationClose,
	}}
}

func (e *Engine) cancellationRequesterCheck(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification

	if e.requesterIsRep(rc.request) {
		rc.run.Path = domain.PathRepRequester
		rc.record(domain.StepLog, StepNameRepInitiated, 0, map[string]string{
			"requester": rc.request.RequesterEmail,
		})
		return StateRequesterCheck, nil
	}

	rc.run.Path = domain.PathThirdPartyRequester
	ack := EmailRecord{
		To:      rc.request.RequesterEmail,
		Subject: fmt.Sprintf("Re: %s cancellation - %s", cl.SyndicatorOrProvider, cl.DealerName),
		Body:    cancellationAckEmail(cl.Contact, cl.SyndicatorOrProvider, cl.DealerName),
		Kind:    "cancellation_ack",
	}
	if err := e.email.SendEmail(ctx, ack); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameAckThirdParty, emailLatency, map[string]string{
		"to": ack.To, "subject": ack.Subject,
	})

	approval := EmailRecord{
		To:      e.repEmail(cl.Rep),
		Subject: fmt.Sprintf("Approval Needed: %s cancellation - %s", cl.SyndicatorOrProvider, cl.DealerName),
		Body:    cancellationApprovalEmail(cl.Rep, cl.DealerName, cl.SyndicatorOrProvider, rc.request.RequesterEmail),
		Kind:    "cancellation_approval",
	}
	if err := e.email.SendEmail(ctx, approval); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameEmailCancelApproval, emailLatency, map[string]string{
		"to": approval.To, "subject": approval.Subject,
	})
	rc.record(domain.StepWait, StepNameWaitRepApproval, approvalWait, nil)
	return StateRequesterCheck, nil
}

func (e *Engine) cancellationCancelFeed(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification
	result, err := e.feeds.CancelFeed(ctx, FeedParams{
		DealerID:   cl.DealerID,
		DealerName: cl.DealerName,
		FeedName:   cl.SyndicatorOrProvider,
		FeedType:   "export",
	})
	if err != nil {
		return "", err
	}
	rc.feedID = result.FeedID
	rc.record(domain.StepFeedConfig, StepNameCancelFeed, configLatency, map[string]string{
		"feed_id": result.FeedID,
		"status":  result.Status,
	})
	return StateCancelled, nil
}

func (e *Engine) cancellationLog(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification

	cancelledBy := rc.request.RequesterEmail
	if e.requesterIsRep(rc.request) && cl.Rep != "" {
		cancelledBy = cl.Rep
	}
	record := domain.CancellationRecord{
		CancelledAt: e.now(),
		DealerID:    cl.DealerID,
		DealerName:  cl.DealerName,
		FeedName:    cl.SyndicatorOrProvider,
		FeedType:    "export",
		CancelledBy: cancelledBy,
		Reason:      "Automated cancellation request",
		FeedID:      rc.feedID,
	}
	if err := e.cancellations.Append(ctx, record); err != nil {
		return "", err
	}
	rc.record(domain.StepLog, StepNameLogCancellation, 0, map[string]string{
		"feed_id":      record.FeedID,
		"cancelled_by": record.CancelledBy,
	})
	return StateLogged, nil
}

// cancellationNotify tells the syndicator the feed went away, unless the
// syndicator asked for the cancellation themselves.
func (e *Engine) cancellationNotify(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification

	if e.requesterIsSyndicator(rc.request, cl.SyndicatorOrProvider) {
		rc.record(domain.StepLog, StepNameSkipNotify, 0, map[string]string{
			"reason": "requester is the syndicator",
		})
		return StateNotified, nil
	}

	email := EmailRecord{
		To:      syndicatorSupportAddress(cl.SyndicatorOrProvider),
		Subject: fmt.Sprintf("Feed Cancellation Notice - %s", cl.DealerName),
		Body:    syndicatorNotificationEmail(cl.SyndicatorOrProvider, cl.DealerName, rc.feedID),
		Kind:    "syndicator_notification",
	}
	if err := e.email.SendEmail(ctx, email); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameNotifySyndicator, emailLatency, map[string]string{
		"to": email.To, "subject": email.Subject,
	})
	return StateNotified, nil
}

func (e *Engine) cancellationClose(_ context.Context, rc *runContext) (State, error) {
	var delay time.Duration
	if rc.run.Path == domain.PathThirdPartyRequester {
		delay = time.Minute
	}
	rc.record(domain.StepClose, StepNameClose, delay, map[string]string{
		"resolution": "Closed - Automated",
	})
	return StateClosed, nil
}

func syndicatorSupportAddress(syndicator string) string {
	compact := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(syndicator), " ", ""))
	if compact == "" {
		compact = "feeds"
	}
	return "support@" + compact + ".com"
}
