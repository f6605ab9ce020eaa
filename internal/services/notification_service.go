package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/volkiswipe/umfrage/internal/models"
)

// Mailer is the outbound transport the notification service hands rendered
// mail to. Delivery failures never propagate past the caller's log line.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SummaryBucket groups the catalog questions a participant rated with one
// value.
type SummaryBucket struct {
	Value     models.ResponseValue
	Label     string
	Icon      string
	Questions []string
}

var bucketLabels = map[models.ResponseValue]struct {
	label string
	icon  string
}{
	models.ResponseSehrWichtig: {label: "Sehr wichtig", icon: "✅"},
	models.ResponseWichtig:     {label: "Wichtig", icon: "👍"},
	models.ResponseUnwichtig:   {label: "Unwichtig", icon: "👎"},
	models.ResponseEgal:        {label: "Egal", icon: "😐"},
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background-color: #16a34a; color: white; padding: 20px; text-align: center; }
.content { padding: 20px; }
.stats { background-color: #f0fdf4; padding: 15px; border-radius: 8px; margin: 20px 0; }
.bucket { margin: 20px 0; }
.footer { background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="header"><h1>Vielen Dank für Ihre Teilnahme!</h1></div>
<div class="content">
<p>Liebe/r {{.Name}},</p>
<p>Herzlichen Dank, dass Sie sich die Zeit genommen haben, an unserer Umfrage teilzunehmen.
Ihre Meinung ist wichtig für die Zukunft von Volketswil.</p>
<div class="stats">
<h3>Ihre Antworten im Überblick:</h3>
{{range .Buckets}}<div>{{.Icon}} <strong>{{.Label}}:</strong> {{len .Questions}} Themen</div>
{{end}}</div>
{{range .Buckets}}{{if .Questions}}<div class="bucket">
<h4>{{.Icon}} {{.Label}}</h4>
<ul>{{range .Questions}}<li>{{.}}</li>{{end}}</ul>
</div>
{{end}}{{end}}
<p>In den kommenden Wochen werten wir die Ergebnisse aller Teilnehmenden aus
und identifizieren die wichtigsten Themen für Volketswil.</p>
<p>Freundliche Grüsse<br><strong>{{.Sender}}</strong></p>
</div>
<div class="footer">
<p>Diese E-Mail wurde automatisch generiert im Rahmen der Umfrage "Volketswil mitgestalten".</p>
</div>
</body>
</html>
`))

const summarySubject = "Ihre Teilnahme: Volketswil mitgestalten"

// NotificationService renders the categorized response summary and hands it
// to the mail transport.
type NotificationService struct {
	store  QuestionStore
	mailer Mailer
	sender string
}

func NewNotificationService(store QuestionStore, mailer Mailer, sender string) *NotificationService {
	return &NotificationService{store: store, mailer: mailer, sender: sender}
}

// BuildSummary partitions the active catalog into the four response buckets
// and renders the HTML summary. Questions the participant did not answer, or
// that are no longer active, appear in no bucket.
func (s *NotificationService) BuildSummary(name string, responses map[int]models.ResponseValue) (string, error) {
	questions, err := s.store.ListActiveQuestions()
	if err != nil {
		return "", fmt.Errorf("load catalog: %w", err)
	}

	buckets := make([]SummaryBucket, 0, len(models.ResponseValues))
	for _, v := range models.ResponseValues {
		meta := bucketLabels[v]
		buckets = append(buckets, SummaryBucket{Value: v, Label: meta.label, Icon: meta.icon})
	}
	for _, q := range questions {
		v, ok := responses[q.ID]
		if !ok {
			continue
		}
		for i := range buckets {
			if buckets[i].Value == v {
				buckets[i].Questions = append(buckets[i].Questions, q.Text)
				break
			}
		}
	}

	var buf bytes.Buffer
	err = summaryTemplate.Execute(&buf, struct {
		Name    string
		Sender  string
		Buckets []SummaryBucket
	}{Name: name, Sender: s.sender, Buckets: buckets})
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

// SendSummary renders and delivers the summary mail. It is attempted once;
// the caller logs and swallows any error.
func (s *NotificationService) SendSummary(to, name string, responses map[int]models.ResponseValue) error {
	if s.mailer == nil {
		return fmt.Errorf("no mail transport configured")
	}
	body, err := s.BuildSummary(name, responses)
	if err != nil {
		return err
	}
	return s.mailer.Send(to, summarySubject, body)
}
