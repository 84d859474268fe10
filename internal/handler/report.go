package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/service"
	"github.com/dentacore/practice-engine/pkg/response"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Full serves the complete roster report. With ?format=html the report is
// rendered as a printable page; the default is the JSON envelope.
func (h *ReportHandler) Full(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FullReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	h.render(w, r, report, "Complete Report")
}

// Overdue serves the overdue roster. The reference date comes from the
// as_of query parameter (YYYY-MM-DD) and defaults to today.
func (h *ReportHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be formatted YYYY-MM-DD", err)
			return
		}
		asOf = parsed
	}

	report, err := h.service.OverdueReport(r.Context(), asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	h.render(w, r, report, "Overdue Report")
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, report *domain.Report, title string) {
	if r.URL.Query().Get("format") != "html" {
		response.Success(w, report)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		Title  string
		Report *domain.Report
	}{Title: title, Report: report}

	if err := reportTmpl.Execute(w, data); err != nil {
		response.InternalServerError(w, "rendering report", err)
	}
}

// reportTmpl renders a heading per patient, their details, then procedure
// and payment tables.
var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Report.Entries}}
<h2>{{.Patient.Name}}</h2>
<ul>
<li><b>ID:</b> {{.Patient.ID}}</li>
<li><b>Address:</b> {{.Patient.Address}}</li>
<li><b>Phone:</b> {{.Patient.Phone}}</li>
<li><b>Amount owed:</b> {{.AmountOwed}}</li>
</ul>
<h3>Procedures</h3>
<table width="100%">
<tr><th>ID</th><th>Name</th><th>Cost</th></tr>
{{if not .Patient.Procedures}}<tr><td>N/A</td><td>N/A</td><td>N/A</td></tr>{{end}}
{{range .Patient.Procedures}}
<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Cost}}</td></tr>
{{end}}
</table>
<h3>Payments</h3>
<table width="100%">
<tr><th>ID</th><th>Amount</th><th>Date</th><th>Status</th></tr>
{{if not .Patient.Payments}}<tr><td>N/A</td><td>N/A</td><td>N/A</td><td>N/A</td></tr>{{end}}
{{range .Patient.Payments}}
<tr><td>{{.ID}}</td><td>{{.Amount}}</td><td>{{.Date.Format "2006-01-02 15:04"}}</td><td>{{if .Paid}}paid{{else}}pending{{end}}</td></tr>
{{end}}
</table>
<hr>
{{end}}
</body>
</html>
`))
