package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

const testInternalDomain = "dealerdesk.io"

func testSnapshot() *refdata.Snapshot {
	return refdata.NewSnapshot(
		[]string{"Kijiji", "AutoTrader", "CarGurus"},
		[]refdata.DealerInfo{
			{DealerName: "Dealership_1", DealerID: "D001", Rep: "Marc Tremblay"},
			{DealerName: "Dealership_2", DealerID: "D002", Rep: "Julie Gagnon"},
			{DealerName: "Dealership_3", DealerID: "D003", Rep: "Marc Tremblay"},
		},
		[]refdata.BillingInfo{
			{DealerID: "D001", OrderRequired: true, PackageType: "Premium", MonthlyFee: "$299"},
			{DealerID: "D002", OrderRequired: false, PackageType: "Standard", MonthlyFee: "$149"},
		},
	)
}

type fixture struct {
	engine        *Engine
	recorder      *Recorder
	cancellations *MemoryCancellationLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := NewRecorder(zap.NewNop())
	log := NewMemoryCancellationLog()
	eng := NewEngine(testSnapshot(), Sinks{
		Email:         rec,
		Comments:      rec,
		Feeds:         rec,
		Cancellations: log,
	}, testInternalDomain, zap.NewNop())
	return &fixture{engine: eng, recorder: rec, cancellations: log}
}

func activationClassification(dealerID string) domain.Classification {
	name := "Dealership_1"
	rep := "Marc Tremblay"
	switch dealerID {
	case "D002":
		name, rep = "Dealership_2", "Julie Gagnon"
	case "D003":
		name = "Dealership_3"
	}
	return domain.Classification{
		TicketID:             "TICK-100",
		Contact:              "Sarah",
		DealerName:           name,
		DealerID:             dealerID,
		Rep:                  rep,
		Category:             domain.CategoryActivationExisting,
		SubCategory:          domain.SubCategoryExport,
		SyndicatorOrProvider: "Kijiji",
		InventoryType:        domain.InventoryUsed,
		Tier:                 domain.TierAutomatable,
		Sentiment:            domain.SentimentCalm,
	}
}

func cancellationClassification() domain.Classification {
	cl := activationClassification("D001")
	cl.Category = domain.CategoryCancellation
	return cl
}

func stepNames(run *domain.AutomationRun) []string {
	names := make([]string, 0, len(run.Steps))
	for _, s := range run.Steps {
		names = append(names, s.Name)
	}
	return names
}

func TestAutomateRejectsNonTier1(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D001")
	cl.Tier = domain.TierHumanReview

	run, err := f.engine.Automate(context.Background(), cl, Request{})
	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrNotAutomatable)
}

func TestAutomateRejectsUnknownWorkflow(t *testing.T) {
	f := newFixture(t)

	cl := activationClassification("D001")
	cl.Category = domain.CategoryProblemBug
	_, err := f.engine.Automate(context.Background(), cl, Request{})
	assert.ErrorIs(t, err, ErrNoWorkflow)

	cl = activationClassification("D001")
	cl.SubCategory = domain.SubCategoryImport
	_, err = f.engine.Automate(context.Background(), cl, Request{})
	assert.ErrorIs(t, err, ErrNoWorkflow)
}

func TestAutomateRejectsBlankFeedName(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D001")
	cl.SyndicatorOrProvider = ""

	_, err := f.engine.Automate(context.Background(), cl, Request{})
	assert.ErrorIs(t, err, ErrNoWorkflow)
}

func TestActivationOrderPath(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D001")
	req := Request{TicketID: cl.TicketID, RequesterName: "Sarah", RequesterEmail: "sarah@dealership1.com"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.Equal(t, domain.WorkflowActivation, run.Kind)
	assert.Equal(t, domain.PathOrderRequired, run.Path)
	assert.False(t, run.Degraded)
	assert.Equal(t, FeedID("D001", "Kijiji"), run.FeedID)
	assert.Equal(t, []string{
		StepNameAcknowledge,
		StepNameBillingTag,
		StepNameEmailOrderRequest,
		StepNameWaitOrderConfirm,
		StepNameConfigure,
		StepNameConfirm,
		StepNameClose,
	}, stepNames(run))

	emails := f.recorder.Emails()
	require.Len(t, emails, 3)
	assert.Equal(t, "sarah@dealership1.com", emails[0].To)
	assert.Equal(t, "marc.tremblay@dealerdesk.io", emails[1].To)
	assert.Contains(t, emails[1].Body, "Premium")
	assert.Contains(t, emails[2].Body, run.FeedID)

	comments := f.recorder.Comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0].Body, "@billing")
}

func TestActivationApprovalPathThirdParty(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D002")
	cl.SyndicatorOrProvider = "AutoTrader"
	req := Request{TicketID: cl.TicketID, RequesterEmail: "ops@autotrader.ca"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.Equal(t, domain.PathNoOrderRequired, run.Path)
	assert.True(t, run.HasStep(StepNameEmailApprovalRequest))
	assert.True(t, run.HasStep(StepNameWaitRepApproval))
	assert.False(t, run.HasStep(StepNameEmailOrderRequest))
}

func TestActivationRepPathSkipsApproval(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D002")
	req := Request{TicketID: cl.TicketID, RequesterName: "Julie Gagnon", RequesterEmail: "julie.gagnon@dealerdesk.io"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.Equal(t, domain.PathNoOrderRequired, run.Path)
	assert.False(t, run.HasStep(StepNameEmailApprovalRequest))
	assert.False(t, run.HasStep(StepNameWaitRepApproval))
	assert.Equal(t, []string{
		StepNameAcknowledge,
		StepNameBillingTag,
		StepNameConfigure,
		StepNameConfirm,
		StepNameClose,
	}, stepNames(run))
}

func TestActivationDegradedOnMissingBilling(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D003")
	req := Request{TicketID: cl.TicketID, RequesterEmail: "gm@dealership3.com"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.True(t, run.Degraded)
	assert.True(t, run.HasStep(StepNameBillingLookupMissing))
	assert.False(t, run.HasStep(StepNameEmailOrderRequest))
	assert.True(t, run.HasStep(StepNameConfigure))
}

func TestActivationOffsetsMonotonic(t *testing.T) {
	f := newFixture(t)
	cl := activationClassification("D001")

	run, err := f.engine.Automate(context.Background(), cl, Request{RequesterEmail: "x@y.com"})
	require.NoError(t, err)

	for i := 1; i < len(run.Steps); i++ {
		assert.GreaterOrEqual(t, run.Steps[i].Offset, run.Steps[i-1].Offset,
			"offset must never decrease at step %s", run.Steps[i].Name)
	}
}

func TestCancellationRepPath(t *testing.T) {
	f := newFixture(t)
	cl := cancellationClassification()
	req := Request{TicketID: cl.TicketID, RequesterName: "Marc Tremblay", RequesterEmail: "marc.tremblay@dealerdesk.io"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.Equal(t, domain.WorkflowCancellation, run.Kind)
	assert.Equal(t, domain.PathRepRequester, run.Path)
	assert.Equal(t, []string{
		StepNameRepInitiated,
		StepNameCancelFeed,
		StepNameLogCancellation,
		StepNameNotifySyndicator,
		StepNameClose,
	}, stepNames(run))

	records := f.cancellations.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Marc Tremblay", records[0].CancelledBy)
	assert.Equal(t, "Kijiji", records[0].FeedName)
	assert.Equal(t, FeedID("D001", "Kijiji"), records[0].FeedID)

	emails := f.recorder.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "support@kijiji.com", emails[0].To)
}

func TestCancellationThirdPartyPath(t *testing.T) {
	f := newFixture(t)
	cl := cancellationClassification()
	req := Request{TicketID: cl.TicketID, RequesterName: "Sarah", RequesterEmail: "sarah@dealership1.com"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.Equal(t, domain.PathThirdPartyRequester, run.Path)
	assert.Equal(t, []string{
		StepNameAckThirdParty,
		StepNameEmailCancelApproval,
		StepNameWaitRepApproval,
		StepNameCancelFeed,
		StepNameLogCancellation,
		StepNameNotifySyndicator,
		StepNameClose,
	}, stepNames(run))

	records := f.cancellations.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "sarah@dealership1.com", records[0].CancelledBy)
}

func TestCancellationSkipsSelfNotification(t *testing.T) {
	f := newFixture(t)
	cl := cancellationClassification()
	req := Request{TicketID: cl.TicketID, RequesterName: "Kijiji", RequesterEmail: "partners@kijiji.ca"}

	run, err := f.engine.Automate(context.Background(), cl, req)
	require.NoError(t, err)

	assert.True(t, run.HasStep(StepNameSkipNotify))
	assert.False(t, run.HasStep(StepNameNotifySyndicator))
	for _, email := range f.recorder.Emails() {
		assert.NotEqual(t, "syndicator_notification", email.Kind)
	}
}

type failingEmailSink struct {
	failOn string
	inner  EmailSink
}

func (s failingEmailSink) SendEmail(ctx context.Context, email EmailRecord) error {
	if email.Kind == s.failOn {
		return errors.New("smtp unavailable")
	}
	return s.inner.SendEmail(ctx, email)
}

func TestFailureKeepsCompletedSteps(t *testing.T) {
	rec := NewRecorder(zap.NewNop())
	eng := NewEngine(testSnapshot(), Sinks{
		Email:         failingEmailSink{failOn: "confirmation", inner: rec},
		Comments:      rec,
		Feeds:         rec,
		Cancellations: NewMemoryCancellationLog(),
	}, testInternalDomain, zap.NewNop())

	cl := activationClassification("D002")
	run, err := eng.Automate(context.Background(), cl, Request{RequesterEmail: "gm@dealership2.com"})
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunFailed, run.Status)
	assert.Contains(t, run.Error, "smtp unavailable")
	assert.True(t, run.HasStep(StepNameAcknowledge))
	assert.True(t, run.HasStep(StepNameConfigure))
	assert.False(t, run.HasStep(StepNameConfirm))
	assert.False(t, run.HasStep(StepNameClose))
}

func TestFeedIDDerivation(t *testing.T) {
	assert.Equal(t, "FEED-D001-KIJI", FeedID("D001", "Kijiji"))
	assert.Equal(t, "FEED-D002-AUTO", FeedID("D002", "AutoTrader"))
	assert.Equal(t, "FEED-D003-FB", FeedID("D003", "FB"))
	assert.Equal(t, "FEED-D004-FEED", FeedID("D004", ""))
}
