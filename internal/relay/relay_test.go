package relay_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/mailchimp"
	"github.com/ignite/formrelay/internal/mailgun"
	"github.com/ignite/formrelay/internal/relay"
	"github.com/ignite/formrelay/internal/render"
	"github.com/ignite/formrelay/internal/submission"
)

var listingForm = config.Form{
	Path:     "/listings",
	Name:     "listings",
	Label:    "Small Business Deal Analyzer",
	ListID:   "listing-list",
	Pipeline: config.ListingPipeline,
}

func sampleSubmission() *submission.Submission {
	return submission.FromStrings(
		"username", "Jane Doe",
		"email", "jane@example.com",
		"timestamp", "2024-03-05T10:00:00Z",
		"price", "250000",
	)
}

// fakeSteps implements the three step interfaces and records every call.
type fakeSteps struct {
	mu sync.Mutex

	notifyErr   error
	registerErr error
	campaignErr error
	panicOn     relay.Step

	notifies  []string
	registers [][3]string
	campaigns [][3]string
}

func (f *fakeSteps) Notify(_ context.Context, sub *submission.Submission, subject string) error {
	if f.panicOn == relay.StepNotify {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifies = append(f.notifies, subject)
	return f.notifyErr
}

func (f *fakeSteps) Register(_ context.Context, fullName, email, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers = append(f.registers, [3]string{fullName, email, listID})
	return f.registerErr
}

func (f *fakeSteps) CreateCampaign(_ context.Context, sub *submission.Submission, header, listID, pipeline string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaigns = append(f.campaigns, [3]string{header, listID, pipeline})
	return f.campaignErr
}

func newService(f *fakeSteps) *relay.Service {
	return relay.NewService(f, f, f, nil)
}

func TestSubmitRunsAllSteps(t *testing.T) {
	f := &fakeSteps{}
	sub := sampleSubmission()

	out := newService(f).Submit(context.Background(), listingForm, sub)

	assert.True(t, out.OK())
	assert.Empty(t, out.Failed())
	assert.Equal(t, sub.ID(), out.SubmissionID)
	assert.Equal(t, "listings", out.Form)
	require.Len(t, out.Steps, 3)
	assert.Equal(t, relay.StepNotify, out.Steps[0].Step)
	assert.Equal(t, relay.StepSubscribe, out.Steps[1].Step)
	assert.Equal(t, relay.StepCampaign, out.Steps[2].Step)

	assert.Equal(t, []string{"Small Business Deal Analyzer"}, f.notifies)
	assert.Equal(t, [][3]string{{"Jane Doe", "jane@example.com", "listing-list"}}, f.registers)
	assert.Equal(t, [][3]string{{"Small Business Deal Analyzer", "listing-list", "Listing Pipeline"}}, f.campaigns)
	assert.Equal(t, map[string]string{"notify": "ok", "subscribe": "ok", "campaign": "ok"}, out.Summary())
}

func TestSubmitIsolatesFailures(t *testing.T) {
	f := &fakeSteps{registerErr: errors.New("member exists")}

	out := newService(f).Submit(context.Background(), listingForm, sampleSubmission())

	assert.False(t, out.OK())
	assert.False(t, out.AllFailed())
	assert.Equal(t, []relay.Step{relay.StepSubscribe}, out.Failed())
	assert.Len(t, f.notifies, 1)
	assert.Len(t, f.campaigns, 1, "campaign still runs after a subscribe failure")

	res, ok := out.Result(relay.StepSubscribe)
	require.True(t, ok)
	assert.EqualError(t, res.Err, "member exists")
	assert.Equal(t, "failed", out.Summary()["subscribe"])
}

func TestSubmitAllFailed(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeSteps{notifyErr: boom, registerErr: boom, campaignErr: boom}

	out := newService(f).Submit(context.Background(), listingForm, sampleSubmission())

	assert.True(t, out.AllFailed())
	assert.Equal(t, []relay.Step{relay.StepNotify, relay.StepSubscribe, relay.StepCampaign}, out.Failed())
}

func TestSubmitRecoversStepPanic(t *testing.T) {
	f := &fakeSteps{panicOn: relay.StepNotify}

	out := newService(f).Submit(context.Background(), listingForm, sampleSubmission())

	assert.Equal(t, []relay.Step{relay.StepNotify}, out.Failed())
	res, _ := out.Result(relay.StepNotify)
	assert.ErrorContains(t, res.Err, "panicked")
	assert.Len(t, f.registers, 1)
	assert.Len(t, f.campaigns, 1)
}

func TestSubmitDuplicatesAreNotDeduplicated(t *testing.T) {
	f := &fakeSteps{}
	svc := newService(f)

	first := svc.Submit(context.Background(), listingForm, sampleSubmission())
	second := svc.Submit(context.Background(), listingForm, sampleSubmission())

	assert.True(t, first.OK())
	assert.True(t, second.OK())
	assert.NotEqual(t, first.SubmissionID, second.SubmissionID)
	assert.Len(t, f.notifies, 2)
	assert.Len(t, f.registers, 2)
	assert.Len(t, f.campaigns, 2)
}

type fakeSender struct {
	msgs []mailgun.Message
	err  error
}

func (s *fakeSender) SendMessage(_ context.Context, msg mailgun.Message) (*mailgun.SendResponse, error) {
	s.msgs = append(s.msgs, msg)
	if s.err != nil {
		return nil, s.err
	}
	return &mailgun.SendResponse{ID: "id"}, nil
}

func TestMailgunNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := relay.NewMailgunNotifier(sender, "Forms <forms@mg.example.com>", "ops@example.com")
	sub := sampleSubmission()

	require.NoError(t, n.Notify(context.Background(), sub, "SDE Valuation Calculator"))
	require.Len(t, sender.msgs, 1)

	msg := sender.msgs[0]
	assert.Equal(t, "Forms <forms@mg.example.com>", msg.From)
	assert.Equal(t, []string{"ops@example.com"}, msg.To)
	assert.Equal(t, "SDE Valuation Calculator", msg.Subject)
	assert.Equal(t, sub.String(), msg.Text)
	assert.Empty(t, msg.HTML)
}

func TestMailgunNotifierErrors(t *testing.T) {
	sender := &fakeSender{err: &mailgun.APIError{StatusCode: 401, Body: "Forbidden"}}
	err := relay.NewMailgunNotifier(sender, "f", "t").Notify(context.Background(), sampleSubmission(), "s")

	var apiErr *mailgun.APIError
	assert.ErrorAs(t, err, &apiErr)

	err = relay.NewMailgunNotifier(&fakeSender{}, "f", "").Notify(context.Background(), sampleSubmission(), "s")
	assert.ErrorIs(t, err, relay.ErrNoRecipient)
}

type fakeAdder struct {
	listIDs []string
	members []mailchimp.Member
	err     error
}

func (a *fakeAdder) AddListMember(_ context.Context, listID string, m mailchimp.Member) (*mailchimp.MemberResponse, error) {
	a.listIDs = append(a.listIDs, listID)
	a.members = append(a.members, m)
	return &mailchimp.MemberResponse{}, a.err
}

func TestMailchimpRegistrar(t *testing.T) {
	adder := &fakeAdder{}
	r := relay.NewMailchimpRegistrar(adder)

	require.NoError(t, r.Register(context.Background(), "Mary Ann Smith", "mary@example.com", "buyer-list"))
	require.Len(t, adder.members, 1)
	assert.Equal(t, []string{"buyer-list"}, adder.listIDs)
	assert.Equal(t, mailchimp.Member{
		EmailAddress: "mary@example.com",
		Status:       mailchimp.StatusSubscribed,
		MergeFields:  mailchimp.MergeFields{FirstName: "Mary", LastName: "Ann"},
	}, adder.members[0])
}

func TestMailchimpRegistrarSingleName(t *testing.T) {
	adder := &fakeAdder{}
	require.NoError(t, relay.NewMailchimpRegistrar(adder).Register(context.Background(), "Cher", "cher@example.com", "l"))
	assert.Equal(t, "Cher", adder.members[0].MergeFields.FirstName)
	assert.Empty(t, adder.members[0].MergeFields.LastName)
}

func TestMailchimpRegistrarMissingEmail(t *testing.T) {
	adder := &fakeAdder{}
	err := relay.NewMailchimpRegistrar(adder).Register(context.Background(), "Jane Doe", "", "l")
	assert.ErrorIs(t, err, relay.ErrMissingEmail)
	assert.Empty(t, adder.members, "no remote call without an email")
}

type fakeCampaignAPI struct {
	created    []mailchimp.CampaignRequest
	contents   map[string]string
	createErr  error
	contentErr error
}

func (c *fakeCampaignAPI) CreateCampaign(_ context.Context, req mailchimp.CampaignRequest) (*mailchimp.Campaign, error) {
	c.created = append(c.created, req)
	if c.createErr != nil {
		return nil, c.createErr
	}
	return &mailchimp.Campaign{ID: "c1"}, nil
}

func (c *fakeCampaignAPI) SetCampaignContent(_ context.Context, id string, content mailchimp.Content) error {
	if c.contents == nil {
		c.contents = map[string]string{}
	}
	c.contents[id] = content.HTML
	return c.contentErr
}

func TestMailchimpCampaigns(t *testing.T) {
	api := &fakeCampaignAPI{}
	c := relay.NewMailchimpCampaigns(api, "Business Purchase Info", nil)

	err := c.CreateCampaign(context.Background(), sampleSubmission(), "Small Business Deal Analyzer", "listing-list", config.ListingPipeline)
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, mailchimp.CampaignRegular, req.Type)
	assert.Equal(t, "listing-list", req.Recipients.ListID)
	assert.Equal(t, "05.03.2024 Listing Pipeline", req.Settings.Title)
	assert.Equal(t, "Business Purchase Info", req.Settings.SubjectLine)
	assert.Equal(t, "Jane Doe", req.Settings.FromName)
	assert.Equal(t, "jane@example.com", req.Settings.ReplyTo)

	html := api.contents["c1"]
	assert.True(t, strings.HasPrefix(html, "<h1>Small Business Deal Analyzer</h1>"))
	assert.Contains(t, html, "<th>username</th><th>email</th><th>timestamp</th><th>price</th>")
}

func TestMailchimpCampaignsTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	api := &fakeCampaignAPI{}
	sub := submission.FromStrings("timestamp", "2024-03-05T02:00:00Z", "email", "a@b.co")
	require.NoError(t, relay.NewMailchimpCampaigns(api, "s", ny).CreateCampaign(context.Background(), sub, "h", "l", config.BuyerPipeline))
	assert.Equal(t, "04.03.2024 Buyer Pipeline", api.created[0].Settings.Title)
}

func TestMailchimpCampaignsInvalidDate(t *testing.T) {
	api := &fakeCampaignAPI{}
	sub := submission.FromStrings("timestamp", "yesterday")

	err := relay.NewMailchimpCampaigns(api, "s", nil).CreateCampaign(context.Background(), sub, "h", "l", "p")
	assert.ErrorIs(t, err, render.ErrInvalidDate)
	assert.Empty(t, api.created)
}

func TestMailchimpCampaignsCreateFails(t *testing.T) {
	api := &fakeCampaignAPI{createErr: errors.New("quota")}

	err := relay.NewMailchimpCampaigns(api, "s", nil).CreateCampaign(context.Background(), sampleSubmission(), "h", "l", "p")
	assert.ErrorContains(t, err, "create campaign")
	assert.Empty(t, api.contents)
}

func TestMailchimpCampaignsContentFails(t *testing.T) {
	api := &fakeCampaignAPI{contentErr: errors.New("bad html")}

	err := relay.NewMailchimpCampaigns(api, "s", nil).CreateCampaign(context.Background(), sampleSubmission(), "h", "l", "p")

	var partial *relay.PartialCampaignError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "c1", partial.CampaignID)
	assert.ErrorContains(t, err, "set campaign content")
	assert.ErrorContains(t, err, "bad html")
}
