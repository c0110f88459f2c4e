package lemlist

import (
	"net/url"

	"github.com/dukex/operion-integrations/pkg/apiclient"
)

const (
	OperationActivityGetAll    = "activity.getAll"
	OperationCampaignGetAll    = "campaign.getAll"
	OperationLeadCreate        = "lead.create"
	OperationLeadGet           = "lead.get"
	OperationLeadDelete        = "lead.delete"
	OperationLeadUnsubscribe   = "lead.unsubscribe"
	OperationTeamGet           = "team.get"
	OperationUnsubscribeAdd    = "unsubscribe.add"
	OperationUnsubscribeDelete = "unsubscribe.delete"
	OperationUnsubscribeGetAll = "unsubscribe.getAll"
)

var Operations = []string{
	OperationActivityGetAll,
	OperationCampaignGetAll,
	OperationLeadCreate,
	OperationLeadGet,
	OperationLeadDelete,
	OperationLeadUnsubscribe,
	OperationTeamGet,
	OperationUnsubscribeAdd,
	OperationUnsubscribeDelete,
	OperationUnsubscribeGetAll,
}

// ActivityTypes lists the activity filters Lemlist accepts.
var ActivityTypes = []string{
	"emailsOpened", "emailsClicked", "emailsReplied", "emailsBounced",
	"emailsSendFailed", "emailsFailed", "emailsUnsubscribed", "emailsInterested",
	"emailsNotInterested", "opportunitiesDone", "aircallDone", "aircallCreated",
	"aircallEnded", "aircallInterested", "aircallNotInterested", "apiDone",
	"apiInterested", "apiNotInterested", "apiFailed", "linkedinVisitDone",
	"linkedinVisitFailed", "linkedinInviteDone", "linkedinInviteFailed",
	"linkedinInviteAccepted", "linkedinReplied", "linkedinSent",
	"linkedinVoiceNoteDone", "linkedinVoiceNoteFailed", "linkedinInterested",
	"linkedinNotInterested", "linkedinSendFailed", "manualInterested",
	"manualNotInterested", "paused", "resumed", "skipped",
}

// Config is the typed configuration of a Lemlist node.
type Config struct {
	Operation string `json:"operation" validate:"required,oneof=activity.getAll campaign.getAll lead.create lead.get lead.delete lead.unsubscribe team.get unsubscribe.add unsubscribe.delete unsubscribe.getAll"`

	ReturnAll bool `json:"return_all"`
	Limit     int  `json:"limit"      validate:"omitempty,min=1,max=100"`

	// Activity filters.
	Type       string `json:"type"`
	CampaignID string `json:"campaign_id" validate:"required_if=Operation lead.create,required_if=Operation lead.delete,required_if=Operation lead.unsubscribe"`

	Email string `json:"email" validate:"required_if=Operation lead.create,required_if=Operation lead.get,required_if=Operation lead.delete,required_if=Operation lead.unsubscribe,required_if=Operation unsubscribe.add,required_if=Operation unsubscribe.delete,omitempty,email"`

	Deduplicate bool        `json:"deduplicate"`
	Lead        LeadDetails `json:"lead"`
}

// LeadDetails are the optional fields sent when adding a lead to a campaign.
type LeadDetails struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Icebreaker  string `json:"icebreaker,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Picture     string `json:"picture,omitempty"   validate:"omitempty,url"`
	LinkedinURL string `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
}

func (l LeadDetails) body() map[string]any {
	body := map[string]any{}

	for key, value := range map[string]string{
		"firstName":   l.FirstName,
		"lastName":    l.LastName,
		"companyName": l.CompanyName,
		"icebreaker":  l.Icebreaker,
		"phone":       l.Phone,
		"picture":     l.Picture,
		"linkedinUrl": l.LinkedinURL,
	} {
		if value != "" {
			body[key] = value
		}
	}

	return body
}

func (c Config) limit() int {
	if c.Limit <= 0 {
		return apiclient.DefaultPageSize
	}

	return c.Limit
}

func (c Config) leadPath() string {
	return "/campaigns/" + url.PathEscape(c.CampaignID) + "/leads/" + url.PathEscape(c.Email)
}

func (c Config) activityQuery() map[string]any {
	query := map[string]any{}

	if c.Type != "" {
		query["type"] = c.Type
	}

	if c.CampaignID != "" {
		query["campaignId"] = c.CampaignID
	}

	return query
}
