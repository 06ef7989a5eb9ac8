package leave

import (
	"context"
	"fmt"
	"html"

	"staffhub.io/staffhub/infrastructure/communication"
	"staffhub.io/staffhub/model"
)

type Poster interface {
	Info(message string) error
}

// Notifications posts submissions to the admin channel and mails decisions to the employee.
type Notifications struct {
	poster Poster
	mailer communication.Mailer
	from   string
}

func NewNotifications(poster Poster, mailer communication.Mailer, from string) *Notifications {
	return &Notifications{poster: poster, mailer: mailer, from: from}
}

func (n *Notifications) Submitted(_ context.Context, req *model.LeaveRequest, emp *model.Employee) error {
	if n.poster == nil {
		return nil
	}
	return n.poster.Info(fmt.Sprintf("New %s leave request from %s (%s): %s to %s, %d day(s). Reason: %s",
		req.Type, emp.Name, emp.ID,
		req.FromDate.Format("2006-01-02"), req.ToDate.Format("2006-01-02"), req.Days(), req.Reason))
}

func DecisionMessage(from string, req *model.LeaveRequest, emp *model.Employee) *communication.Message {
	subject := fmt.Sprintf("Your leave request was %s", req.Status)
	period := fmt.Sprintf("%s to %s", req.FromDate.Format("2006-01-02"), req.ToDate.Format("2006-01-02"))
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your %s leave for %s was <b>%s</b>.</p>",
		html.EscapeString(emp.Name), html.EscapeString(req.Type), period, html.EscapeString(req.Status))
	return &communication.Message{
		From:    from,
		To:      []string{emp.Email},
		Subject: subject,
		Text:    fmt.Sprintf("Hi %s,\n\nYour %s leave for %s was %s.\n", emp.Name, req.Type, period, req.Status),
		HTML:    body,
	}
}

func (n *Notifications) Decided(ctx context.Context, req *model.LeaveRequest, emp *model.Employee) error {
	if n.mailer == nil || emp.Email == "" {
		return nil
	}
	return n.mailer.Send(ctx, DecisionMessage(n.from, req, emp))
}
