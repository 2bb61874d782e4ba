package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Notifier emails the family when a new memory is created. Delivery is
// at-most-once and fire-and-forget: the creating request never waits on
// it and never learns whether it succeeded.
type Notifier struct {
	Client     *Client
	Recipients []string
	SiteURL    string
}

// NewNotifier creates a Notifier over a Resend client.
func NewNotifier(client *Client, recipients []string, siteURL string) *Notifier {
	return &Notifier{Client: client, Recipients: recipients, SiteURL: siteURL}
}

// MemoryCreated fires the new-memory email in the background.
func (n *Notifier) MemoryCreated(memory models.Memory) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		subject, body := n.Compose(memory)
		if err := n.Client.Send(ctx, n.Recipients, subject, body); err != nil {
			log.Warn().Err(err).Str("eventCode", memory.EventCode).Msg("Failed to send new-memory email")
			return
		}
		log.Info().Str("eventCode", memory.EventCode).Msg("New-memory email sent")
	}()
}

// Compose builds the subject and plaintext body for a new-memory email.
func (n *Notifier) Compose(memory models.Memory) (subject, body string) {
	eventName := memory.Occasion
	if memory.Occasion == models.OccasionHoliday && memory.Holiday != "" {
		eventName = memory.Holiday
	}
	creatorName := memory.CreatedByName
	if creatorName == "" {
		creatorName = "Unknown"
	}

	formattedDate := ""
	if memory.Date != "" {
		formattedDate = OrdinalDate(memory.Date)
	}

	eventLabel := eventName
	if eventName != "" && formattedDate != "" {
		eventLabel = fmt.Sprintf("%s (%s)", eventName, formattedDate)
	} else if eventName == "" {
		eventLabel = formattedDate
	}

	url := ""
	if memory.EventCode != "" {
		url = fmt.Sprintf("%s/memory/%s", n.SiteURL, memory.EventCode)
	}

	subject = fmt.Sprintf("Share your memories from %s", eventLabel)
	body = fmt.Sprintf(`
Hey fam,

A new event was just added to Nana's Table:
%s - Created by %s

Now's a great time to add your own photos, stories, or anything you want to remember.

You can add your part here:
👉 Add your memory: %s
`, eventLabel, creatorName, url)

	if memory.CreatedByName == "" {
		body += "\n(Note: The creator's name was not set. If this is you, please check your profile settings.)\n"
	}
	if url != "" {
		body += "\nIf you get a 404, try refreshing the page or double-checking the event code.\n"
	}
	body += "\nIt only takes a minute, and I promise it'll be worth it when we (or the kids) look back on all of this later.\n\nLove,\nMax\n"
	return subject, body
}

// OrdinalDate formats a YYYY-MM-DD date as "July 19th". The input comes
// back unchanged if it does not parse.
func OrdinalDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	day := t.Day()
	suffix := "th"
	if day < 4 || day > 20 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%s %d%s", t.Month().String(), day, suffix)
}
