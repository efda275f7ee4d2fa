package notify

import (
	"bytes"
	"html/template"
)

var templates = template.Must(template.New("email").Parse(`
{{define "invoice"}}<p>Hello {{.ClientName}},</p>
<p>{{.Sender}} has sent you invoice <strong>{{.Number}}</strong> for <strong>{{.AmountDue}}</strong>.</p>
{{if .DueDate}}<p>Payment is due on {{.DueDate}}.</p>{{end}}
<p><a href="{{.ViewURL}}">View and pay the invoice online</a></p>
<p>Thank you,<br>{{.Sender}}</p>{{end}}

{{define "reminder"}}<p>Hello {{.ClientName}},</p>
<p>{{.Intro}}</p>
<p>Invoice <strong>{{.Number}}</strong> has an outstanding balance of <strong>{{.AmountDue}}</strong>{{if .DueDate}}, due on {{.DueDate}}{{end}}.</p>
<p><a href="{{.ViewURL}}">View and pay the invoice online</a></p>
<p>Regards,<br>{{.Sender}}</p>{{end}}

{{define "payment"}}<p>Hello {{.ClientName}},</p>
<p>We received your payment of <strong>{{.Amount}}</strong> for invoice <strong>{{.Number}}</strong>.</p>
{{if .Settled}}<p>The invoice is now paid in full.</p>{{else}}<p>Remaining balance: <strong>{{.AmountDue}}</strong>.</p>{{end}}
<p>Thank you,<br>{{.Sender}}</p>{{end}}
`))

type emailData struct {
	Sender     string
	ClientName string
	Number     string
	AmountDue  string
	Amount     string
	DueDate    string
	ViewURL    string
	Intro      string
	Settled    bool
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
