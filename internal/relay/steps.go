package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/formrelay/internal/mailchimp"
	"github.com/ignite/formrelay/internal/mailgun"
	"github.com/ignite/formrelay/internal/render"
	"github.com/ignite/formrelay/internal/submission"
)

// Notifier sends the internal notification for a submission.
type Notifier interface {
	Notify(ctx context.Context, sub *submission.Submission, subject string) error
}

// Registrar subscribes the submitter to an audience.
type Registrar interface {
	Register(ctx context.Context, fullName, email, listID string) error
}

// CampaignCreator creates a draft campaign describing a submission.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, sub *submission.Submission, header, listID, pipeline string) error
}

// MessageSender is the part of *mailgun.Client the notifier uses.
type MessageSender interface {
	SendMessage(ctx context.Context, msg mailgun.Message) (*mailgun.SendResponse, error)
}

// MailgunNotifier emails the serialized submission to a fixed recipient.
type MailgunNotifier struct {
	client MessageSender
	from   string
	to     string
}

// NewMailgunNotifier creates a notifier sending from -> to.
func NewMailgunNotifier(client MessageSender, from, to string) *MailgunNotifier {
	return &MailgunNotifier{client: client, from: from, to: to}
}

// Notify sends one plain-text message whose body is the submission as JSON.
func (n *MailgunNotifier) Notify(ctx context.Context, sub *submission.Submission, subject string) error {
	if n.to == "" {
		return ErrNoRecipient
	}
	_, err := n.client.SendMessage(ctx, mailgun.Message{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Text:    sub.String(),
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// ListMemberAdder is the part of *mailchimp.Client the registrar uses.
type ListMemberAdder interface {
	AddListMember(ctx context.Context, listID string, m mailchimp.Member) (*mailchimp.MemberResponse, error)
}

// MailchimpRegistrar adds submitters to a Mailchimp audience.
type MailchimpRegistrar struct {
	client ListMemberAdder
}

// NewMailchimpRegistrar creates a registrar backed by client.
func NewMailchimpRegistrar(client ListMemberAdder) *MailchimpRegistrar {
	return &MailchimpRegistrar{client: client}
}

// Register subscribes email to listID with the name split into merge fields.
// A single-token name is sent without a last name.
func (r *MailchimpRegistrar) Register(ctx context.Context, fullName, email, listID string) error {
	if email == "" {
		return ErrMissingEmail
	}
	name := submission.SplitName(fullName)
	member := mailchimp.Member{
		EmailAddress: email,
		Status:       mailchimp.StatusSubscribed,
		MergeFields:  mailchimp.MergeFields{FirstName: name.First},
	}
	if name.HasLast {
		member.MergeFields.LastName = name.Last
	}
	if _, err := r.client.AddListMember(ctx, listID, member); err != nil {
		return fmt.Errorf("add list member: %w", err)
	}
	return nil
}

// CampaignAPI is the part of *mailchimp.Client the campaign step uses.
type CampaignAPI interface {
	CreateCampaign(ctx context.Context, req mailchimp.CampaignRequest) (*mailchimp.Campaign, error)
	SetCampaignContent(ctx context.Context, id string, content mailchimp.Content) error
}

// MailchimpCampaigns creates one draft campaign per submission. Campaigns
// are never scheduled or sent.
type MailchimpCampaigns struct {
	client  CampaignAPI
	subject string
	loc     *time.Location
}

// NewMailchimpCampaigns creates the campaign step. Titles carry the
// submission date in loc; a nil loc means UTC.
func NewMailchimpCampaigns(client CampaignAPI, subject string, loc *time.Location) *MailchimpCampaigns {
	if loc == nil {
		loc = time.UTC
	}
	return &MailchimpCampaigns{client: client, subject: subject, loc: loc}
}

// CreateCampaign creates a draft titled "DD.MM.YYYY <pipeline>" addressed to
// listID and sets its body to the submission table under header. An
// unparseable timestamp fails the step before any remote call.
func (c *MailchimpCampaigns) CreateCampaign(ctx context.Context, sub *submission.Submission, header, listID, pipeline string) error {
	date, err := render.FormatDate(sub.Timestamp(), c.loc)
	if err != nil {
		return err
	}

	campaign, err := c.client.CreateCampaign(ctx, mailchimp.CampaignRequest{
		Type:       mailchimp.CampaignRegular,
		Recipients: mailchimp.Recipients{ListID: listID},
		Settings: mailchimp.CampaignSettings{
			SubjectLine: c.subject,
			Title:       date + " " + pipeline,
			FromName:    sub.Username(),
			ReplyTo:     sub.Email(),
		},
	})
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	html := render.CampaignHTML(header, sub.Fields())
	if err := c.client.SetCampaignContent(ctx, campaign.ID, mailchimp.Content{HTML: html}); err != nil {
		return &PartialCampaignError{
			CampaignID: campaign.ID,
			Err:        fmt.Errorf("set campaign content: %w", err),
		}
	}
	return nil
}
