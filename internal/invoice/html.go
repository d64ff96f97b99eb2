package invoice

import (
	"bytes"
	"fmt"
	"html/template"
)

var htmlTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"rupiah":   FormatRupiah,
	"longDate": LongDate,
	"wireDate": LongDateOf,
}).Parse(`<html>
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <style>
      body { font-family: Arial, sans-serif; padding: 16px; background-color: #f8f9fa; }
      table { width: 100%; border-collapse: collapse; }
      th, td { border: 1px solid #ddd; padding: 8px; text-align: center; }
      th { background-color: #e9ecef; }
      .total { text-align: right; font-weight: bold; }
    </style>
  </head>
  <body>
{{- if not . }}
    <h1 style="text-align: center;">Invoice</h1>
    <p>No invoice data available.</p>
{{- else }}
    <h1 style="text-align: center;">Invoice | HikeSafe</h1>
    <table class="details">
      <tr><td><strong>Date</strong></td><td>{{ longDate .CreatedAt }}</td></tr>
      <tr><td><strong>Buyer's Name</strong></td><td>{{ .BuyerName }}</td></tr>
      <tr><td><strong>Start Date</strong></td><td>{{ wireDate .StartDate }}</td></tr>
      <tr><td><strong>End Date</strong></td><td>{{ wireDate .EndDate }}</td></tr>
    </table>

    <h2>Tickets:</h2>
    <table>
      <thead>
        <tr><th>Ticket Name</th><th>Type</th><th>Price</th></tr>
      </thead>
      <tbody>
{{- range .Lines }}
        <tr>
          <td>{{ .Name }}</td>
          <td>{{ .TypeLabel }}</td>
          <td style="text-align: right;">{{ rupiah .Price }}</td>
        </tr>
{{- else }}
        <tr><td colspan="3">No tickets found</td></tr>
{{- end }}
      </tbody>
    </table>
    <h2 class="total">Total: {{ rupiah .Total }}</h2>
{{- end }}
  </body>
</html>
`))

// HTML renders the invoice page. A nil invoice renders the empty-state
// page.
func HTML(inv *Invoice) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}
