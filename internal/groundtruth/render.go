package groundtruth

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// renderData is what document layouts are executed against.
type renderData struct {
	Dataset *model.GroundTruthDataset
	Title   string
}

// RenderDocument produces a human-readable synthetic document for a dataset
// by filling the template's layout with the generated entities. The output
// is meant for end-to-end pipeline runs, not for scoring.
func RenderDocument(ds *model.GroundTruthDataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("%w: dataset is required", common.ErrInvalidInput)
	}
	tmpl, err := LookupTemplate(ds.TemplateID)
	if err != nil {
		return "", err
	}

	funcMap := template.FuncMap{
		"formatAmount": formatAmount,
		"humanize":     humanize,
		"upper":        strings.ToUpper,
	}

	filename := fmt.Sprintf("templates/%s.tmpl", tmpl.Layout)
	t, err := template.New(fmt.Sprintf("%s.tmpl", tmpl.Layout)).Funcs(funcMap).ParseFS(templateFS, filename)
	if err != nil {
		return "", fmt.Errorf("failed to parse layout %s: %w", tmpl.Layout, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, renderData{Dataset: ds, Title: tmpl.Name}); err != nil {
		return "", fmt.Errorf("failed to render document %s: %w", ds.DocumentID, err)
	}
	return buf.String(), nil
}

func formatAmount(currency string, amount float64) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	whole := fmt.Sprintf("%.0f", amount)
	sign := ""
	if rest, ok := strings.CutPrefix(whole, "-"); ok {
		whole = rest
		if whole != "0" {
			sign = "-"
		}
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + symbol + b.String()
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
