// Package email sends meal plans to consumers over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const planSubject = "Your meal plan for this week is ready!"

var planTemplate = template.Must(template.New("weekly-meal-plan").Parse(`<!DOCTYPE html>
<html>
<body>
  <h2>Hi {{.Name}},</h2>
  <p>Your meal plan starting {{.WeekStart}} is ready. Here is what is on the menu:</p>
  <ol>
  {{range .Meals}}
    <li>
      <strong>{{.MealName}}</strong>
      {{if .Ingredients}}<br><small>{{range $i, $ing := .Ingredients}}{{if $i}}, {{end}}{{$ing}}{{end}}</small>{{end}}
    </li>
  {{end}}
  </ol>
  <p>Enjoy your meals!</p>
</body>
</html>`))

type planData struct {
	Name      string
	WeekStart string
	Meals     []common.Meal
}

// Mailer delivers meal plan emails through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates an SMTP mailer, or (nil, nil) when mail is disabled.
func NewMailer(cfg *config.SMTPConfig) (*Mailer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// SendPlan renders the plan as HTML and delivers it to the consumer.
func (m *Mailer) SendPlan(ctx context.Context, consumer *common.Consumer, plan *common.WeeklyMealPlan) error {
	name := consumer.Name
	if name == "" {
		name = consumer.Email
	}

	var body bytes.Buffer
	data := planData{
		Name:      name,
		WeekStart: plan.WeekStartDate.Format("January 2, 2006"),
		Meals:     plan.Meals,
	}
	if err := planTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render plan email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", consumer.Email)
	msg.SetHeader("Subject", planSubject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send plan email: %w", err)
	}

	common.LogInfo("plan email delivered",
		zap.String("to", consumer.Email),
		zap.Int64("plan_id", plan.ID))
	return nil
}
