package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

// Step names for the activation workflow. The order and presence of these
// per path is a contract; tests assert on the sequence, not the offsets.
const (
	StepNameAcknowledge          = "Acknowledge"
	StepNameBillingTag           = "BillingTag"
	StepNameBillingLookupMissing = "BillingLookupMissing"
	StepNameEmailOrderRequest    = "EmailOrderRequest"
	StepNameWaitOrderConfirm     = "WaitOrderConfirmation"
	StepNameEmailApprovalRequest = "EmailApprovalRequest"
	StepNameWaitRepApproval      = "WaitRepApproval"
	StepNameConfigure            = "Configure"
	StepNameConfirm              = "Confirm"
	StepNameClose                = "Close"
)

// Simulated latency annotations per step kind. Illustrative only.
const (
	emailLatency   = 30 * time.Second
	commentLatency = 15 * time.Second
	configLatency  = time.Minute
	orderWait      = 4 * time.Hour
	approvalWait   = 2 * time.Hour
)

// activationMachine builds the Product Activation - Existing workflow:
// Start -> Acknowledged -> BillingTagged -> OrderCheck -> {OrderPath |
// ApprovalPath} -> Configured -> Confirmed -> Closed.
func (e *Engine) activationMachine() machine {
	return machine{transitions: map[State]transition{
		StateStart:        e.activationAcknowledge,
		StateAcknowledged: e.activationBillingTag,
		StateBillingTag:   e.activationOrderCheck,
		StateOrderCheck:   e.activationBranch,
		StateApproved:     e.activationConfigure,
		StateConfigured:   e.activationConfirm,
		StateConfirmed:    e.activationClose,
	}}
}

func (e *Engine) activationAcknowledge(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification
	email := EmailRecord{
		To:      rc.request.RequesterEmail,
		Subject: fmt.Sprintf("Re: %s export setup - %s", cl.SyndicatorOrProvider, cl.DealerName),
		Body:    acknowledgmentEmail(cl.Contact, cl.SyndicatorOrProvider, "export"),
		Kind:    "acknowledgment",
	}
	if err := e.email.SendEmail(ctx, email); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameAcknowledge, emailLatency, map[string]string{
		"to": email.To, "subject": email.Subject,
	})
	return StateAcknowledged, nil
}

func (e *Engine) activationBillingTag(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification
	comment := CommentRecord{
		Body:        billingComment(cl.DealerName, cl.DealerID, cl.SyndicatorOrProvider, "export"),
		TaggedUsers: []string{"@billing"},
		Kind:        "billing_check",
	}
	if err := e.comments.PostInternalComment(ctx, comment); err != nil {
		return "", err
	}
	rc.record(domain.StepInternalComment, StepNameBillingTag, commentLatency, map[string]string{
		"tagged": "@billing",
	})
	return StateBillingTag, nil
}

// activationOrderCheck consults the billing requirements. A missing row is
// the documented degraded path: the run continues without an order, gets
// flagged, and a log step records the gap.
func (e *Engine) activationOrderCheck(_ context.Context, rc *runContext) (State, error) {
	billing, err := e.snapshot.BillingRequirement(rc.classification.DealerID)
	if err == refdata.ErrNotFound || rc.classification.DealerID == "" {
		rc.run.Degraded = true
		rc.orderRequired = false
		rc.record(domain.StepLog, StepNameBillingLookupMissing, 0, map[string]string{
			"dealer_id": rc.classification.DealerID,
			"note":      "billing requirement not found; proceeding without order",
		})
		return StateOrderCheck, nil
	}
	if err != nil {
		return "", err
	}
	rc.orderRequired = billing.OrderRequired
	rc.billing = billingLookup{
		found:       true,
		packageType: billing.PackageType,
		monthlyFee:  billing.MonthlyFee,
		notes:       billing.Notes,
	}
	return StateOrderCheck, nil
}

// activationBranch picks OrderPath or ApprovalPath. On the approval side a
// request coming directly from the rep skips the approval gate entirely.
func (e *Engine) activationBranch(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification

	if rc.orderRequired {
		rc.run.Path = domain.PathOrderRequired
		email := EmailRecord{
			To:      e.repEmail(cl.Rep),
			Subject: fmt.Sprintf("Order Required: %s export - %s", cl.SyndicatorOrProvider, cl.DealerName),
			Body:    orderRequestEmail(cl.Rep, cl.DealerName, cl.SyndicatorOrProvider, "export", rc.billing.packageType, rc.billing.monthlyFee),
			Kind:    "order_request",
		}
		if err := e.email.SendEmail(ctx, email); err != nil {
			return "", err
		}
		rc.record(domain.StepEmail, StepNameEmailOrderRequest, emailLatency, map[string]string{
			"to": email.To, "subject": email.Subject,
		})
		rc.record(domain.StepWait, StepNameWaitOrderConfirm, orderWait, map[string]string{
			"order_ref": "ORD-" + cl.DealerID,
		})
		return StateApproved, nil
	}

	rc.run.Path = domain.PathNoOrderRequired
	if e.requesterIsRep(rc.request) {
		// Rep requested the feed directly; no approval gate.
		return StateApproved, nil
	}

	email := EmailRecord{
		To:      e.repEmail(cl.Rep),
		Subject: fmt.Sprintf("Approval Needed: %s export - %s", cl.SyndicatorOrProvider, cl.DealerName),
		Body:    approvalRequestEmail(cl.Rep, cl.DealerName, cl.SyndicatorOrProvider, "export", rc.request.RequesterEmail),
		Kind:    "approval_request",
	}
	if err := e.email.SendEmail(ctx, email); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameEmailApprovalRequest, emailLatency, map[string]string{
		"to": email.To, "subject": email.Subject,
	})
	rc.record(domain.StepWait, StepNameWaitRepApproval, approvalWait, nil)
	return StateApproved, nil
}

func (e *Engine) activationConfigure(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification
	result, err := e.feeds.ConfigureFeed(ctx, FeedParams{
		DealerID:      cl.DealerID,
		DealerName:    cl.DealerName,
		FeedName:      cl.SyndicatorOrProvider,
		FeedType:      "export",
		InventoryType: string(cl.InventoryType),
	})
	if err != nil {
		return "", err
	}
	rc.feedID = result.FeedID
	rc.record(domain.StepFeedConfig, StepNameConfigure, configLatency, map[string]string{
		"feed_id":   result.FeedID,
		"feed_url":  result.FeedURL,
		"status":    result.Status,
		"inventory": string(cl.InventoryType),
	})
	return StateConfigured, nil
}

func (e *Engine) activationConfirm(ctx context.Context, rc *runContext) (State, error) {
	cl := rc.classification
	email := EmailRecord{
		To:      rc.request.RequesterEmail,
		Subject: fmt.Sprintf("Completed: %s export setup - %s", cl.SyndicatorOrProvider, cl.DealerName),
		Body:    confirmationEmail(cl.Contact, cl.DealerName, cl.SyndicatorOrProvider, "export", rc.feedID, feedURL(cl.DealerID, cl.SyndicatorOrProvider), string(cl.InventoryType)),
		Kind:    "confirmation",
	}
	if err := e.email.SendEmail(ctx, email); err != nil {
		return "", err
	}
	rc.record(domain.StepEmail, StepNameConfirm, emailLatency, map[string]string{
		"to": email.To, "subject": email.Subject,
	})
	return StateConfirmed, nil
}

func (e *Engine) activationClose(_ context.Context, rc *runContext) (State, error) {
	rc.record(domain.StepClose, StepNameClose, 0, map[string]string{
		"resolution": "Closed - Automated",
	})
	return StateClosed, nil
}
