package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/volkiswipe/umfrage/internal/models"
)

type ExportStore interface {
	ExportRows() ([]models.ExportRow, error)
	ResponseStatistics() ([]models.StatRow, error)
}

// ExportResult is a rendered download ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// utf8BOM is prefixed to CSV output so spreadsheet tools pick up the
// encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var participantHeader = []string{"ID", "Name", "E-Mail", "Zeitpunkt", "Frage ID", "Antwort"}

// ExportService renders the participant/response data for download. All
// exports require the same shared secret as the statistics API; the token is
// rejected before any query runs.
type ExportService struct {
	store ExportStore
	token string
	now   func() time.Time
}

func NewExportService(store ExportStore, token string) *ExportService {
	return &ExportService{store: store, token: token, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ExportService) authorize(token string) error {
	// Reuse the exact-match rule of the stats API.
	return (&StatsService{token: s.token}).Authorize(token)
}

// ExportParticipants renders every participant joined with their responses as
// either a semicolon CSV ("csv") or a spreadsheet-compatible HTML table
// ("excel").
func (s *ExportService) ExportParticipants(token, format string) (*ExportResult, error) {
	if err := s.authorize(token); err != nil {
		return nil, err
	}
	rows, err := s.store.ExportRows()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load export rows: %v", err))
	}
	switch format {
	case "csv":
		data, err := renderParticipantCSV(rows)
		if err != nil {
			return nil, NewInternalError(fmt.Sprintf("could not render csv: %v", err))
		}
		return &ExportResult{
			Filename:    "umfrage_export_" + s.now().Format("2006-01-02") + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        data,
		}, nil
	case "excel":
		data, err := renderParticipantTable(rows)
		if err != nil {
			return nil, NewInternalError(fmt.Sprintf("could not render table: %v", err))
		}
		return &ExportResult{
			Filename:    "umfrage_export_" + s.now().Format("2006-01-02") + ".xls",
			ContentType: "application/vnd.ms-excel; charset=utf-8",
			Data:        data,
		}, nil
	default:
		return nil, NewInvalidError("unknown export type")
	}
}

// ExportStatistics renders the (question, value, count) aggregation as a
// semicolon CSV.
func (s *ExportService) ExportStatistics(token string) (*ExportResult, error) {
	if err := s.authorize(token); err != nil {
		return nil, err
	}
	stats, err := s.store.ResponseStatistics()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load statistics: %v", err))
	}
	buf := bytes.NewBuffer(utf8BOM)
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write([]string{"Frage ID", "Antwort", "Anzahl"}); err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not render csv: %v", err))
	}
	for _, row := range stats {
		rec := []string{strconv.Itoa(row.QuestionID), string(row.Value), strconv.Itoa(row.Count)}
		if err := w.Write(rec); err != nil {
			return nil, NewInternalError(fmt.Sprintf("could not render csv: %v", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not render csv: %v", err))
	}
	return &ExportResult{
		Filename:    "statistik_" + s.now().Format("2006-01-02") + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func exportCells(row models.ExportRow) []string {
	qid, value := "", ""
	if row.QuestionID != nil {
		qid = strconv.Itoa(*row.QuestionID)
	}
	if row.Value != nil {
		value = *row.Value
	}
	return []string{
		strconv.FormatInt(row.ParticipantID, 10),
		row.Name,
		row.Email,
		row.SubmittedAt,
		qid,
		value,
	}
}

func renderParticipantCSV(rows []models.ExportRow) ([]byte, error) {
	buf := bytes.NewBuffer(utf8BOM)
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write(participantHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(exportCells(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// excelTemplate is the minimal HTML document older spreadsheet tools accept
// as an .xls file. Cell text is escaped by html/template.
var excelTemplate = template.Must(template.New("excel").Parse(`<html xmlns:x="urn:schemas-microsoft-com:office:excel">
<head><meta charset="UTF-8"></head>
<body>
<table border="1">
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body></html>
`))

func renderParticipantTable(rows []models.ExportRow) ([]byte, error) {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, exportCells(row))
	}
	var buf bytes.Buffer
	err := excelTemplate.Execute(&buf, struct {
		Header []string
		Rows   [][]string
	}{Header: participantHeader, Rows: cells})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
