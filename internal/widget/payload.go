package widget

import (
	"fmt"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

// Attachment is a Slack message attachment.
type Attachment struct {
	Fallback   string `json:"fallback"`
	AuthorName string `json:"author_name"`
	Color      string `json:"color"`
	Title      string `json:"title"`
	TitleLink  string `json:"title_link"`
	Text       string `json:"text"`
	Footer     string `json:"footer,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Payload is the incoming-webhook body handed to the submit collaborator.
// It is built once per submission and never modified afterwards.
type Payload struct {
	Channel     string       `json:"channel"`
	Username    string       `json:"username"`
	IconEmoji   string       `json:"icon_emoji"`
	Attachments []Attachment `json:"attachments"`
}

// Report is everything a payload is assembled from.
type Report struct {
	Channel   string
	Username  string
	IconEmoji string
	Category  Category
	Fields    Fields
	PageURL   string
	ImageURL  string
}

// ComposeMessage renders the attachment text.
func ComposeMessage(f Fields, pageURL string) string {
	return fmt.Sprintf("*Name*: %s\n*Email*: %s\n*Message*: %s\n<%s>",
		f.Name, f.Email, f.Message, pageURL)
}

// BuildPayload assembles the webhook payload. The image field is omitted
// entirely when r.ImageURL is empty.
func BuildPayload(r Report) Payload {
	return Payload{
		Channel:   r.Channel,
		Username:  r.Username,
		IconEmoji: r.IconEmoji,
		Attachments: []Attachment{{
			Fallback:   fmt.Sprintf("Feedback (%s)", r.Category),
			AuthorName: r.Username,
			Color:      r.Category.Color(),
			Title:      string(r.Category),
			TitleLink:  r.PageURL,
			Text:       ComposeMessage(r.Fields, r.PageURL),
			Footer:     constants.AttachmentFooter,
			ImageURL:   r.ImageURL,
		}},
	}
}
