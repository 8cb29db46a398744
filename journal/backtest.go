package journal

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/backtester/sim"
)

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"fills": func(snaps []sim.Snapshot) string {
		filled, rejected := sim.Fills(snaps)
		return fmt.Sprintf("%d/%d", filled, rejected)
	},
}

var runOrg = template.Must(template.New("backtest").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders a run as an Org-mode entry. Structured facts go in
// the PROPERTIES drawer so they stay searchable.
func FormatRunOrg(run BacktestRun) (string, error) {
	var buf bytes.Buffer
	if err := runOrg.Execute(&buf, run); err != nil {
		return "", fmt.Errorf("render run %s: %w", run.RunID, err)
	}
	return buf.String(), nil
}

// WriteRunOrg writes the Org entry for run to path.
func WriteRunOrg(path string, run BacktestRun) error {
	s, err := FormatRunOrg(run)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `* BACKTEST: {{range $i, $s := .Symbols}}{{if $i}} {{end}}{{$s}}{{end}} {{.Start}}..{{.End}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STATUS:      {{.Status}}
:START_DATE:  {{.Start}}
:END_DATE:    {{.End}}
{{- with .Stats}}
:CAPITAL:     {{.InitialCapital.StringFixed 2}}
:FINAL_VALUE: {{.FinalValue.StringFixed 2}}
:TOTAL_RET:   {{.TotalReturn.StringFixed 2}}
:RETURN_PCT:  {{.ReturnRate.String}}
:SHARPE:      {{.SharpeRatio.String}}
:MAX_DD_PCT:  {{.MaxDrawdown.String}}
:DAYS:        {{.TradingDays}}
{{- end}}
{{- if .Snapshots}}
:FILLS:       {{fills .Snapshots}}
{{- end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

{{.Message}}
{{- with .Stats}}

** Performance Summary
- Final Value:      *{{.FinalValue.StringFixed 2}}*
- Return:           *{{.ReturnRate.String}}%*
- Max Drawdown:     *{{.MaxDrawdown.String}}%*
- Sharpe (annual):  *{{.SharpeRatio.String}}*

** Trades
| Outcome  | Count |
|----------+-------|
| Filled   | {{.FilledTrades}} |
| Rejected | {{.RejectedTrades}} |
{{- end}}
{{- if .Snapshots}}

** Portfolio History
| Date | Cash | Total Value | Daily Return |
|------+------+-------------+--------------|
{{- range .Snapshots}}
| {{.Date}} | {{.Cash.StringFixed 2}} | {{.TotalValue.StringFixed 2}} | {{.DailyReturn.String}} |
{{- end}}
{{- end}}
`
