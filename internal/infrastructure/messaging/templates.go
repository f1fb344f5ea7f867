package messaging

import (
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// ReminderData is the input to both reminder templates.
type ReminderData struct {
	CustomerName string
	CompanyName  string
	InvoiceNo    string
	InvoiceDate  time.Time
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Pending      decimal.Decimal
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
}

var reminderTmpl = template.Must(template.New("reminder").Funcs(funcs).Parse(`Hi {{.CustomerName}},

This is a payment reminder from {{.CompanyName}}.

Invoice: {{.InvoiceNo}}
Date: {{date .InvoiceDate}}
Total Amount: {{money .Total}}
Paid: {{money .Paid}}
Pending: {{money .Pending}}

Please clear the pending balance at your earliest convenience.

Thank you!`))

var autoReminderTmpl = template.Must(template.New("auto_reminder").Funcs(funcs).Parse(`Hi {{.CustomerName}},

Payment Reminder from {{.CompanyName}}

Invoice: {{.InvoiceNo}}
Pending Amount: {{money .Pending}}

Please clear your payment. Thank you!`))

// RenderReminder renders the detailed message used for a manual reminder.
func RenderReminder(data ReminderData) (string, error) {
	return render(reminderTmpl, data)
}

// RenderAutoReminder renders the short message used by the batch sender.
func RenderAutoReminder(data ReminderData) (string, error) {
	return render(autoReminderTmpl, data)
}

func render(t *template.Template, data ReminderData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
