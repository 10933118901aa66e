package web

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Duty Register {{.Month}}</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; padding: 24px; box-sizing: border-box; }
    * { box-sizing: border-box; }
    h2 { margin-top: 0; font-weight: 600; }
    .err { color: #b00020; margin: 12px 0; padding: 10px; background: #ffebee; border-radius: 6px; }
    .warn { color: #7a4f01; margin: 12px 0; padding: 10px; background: #fff8e1; border-radius: 6px; }
    .card { border: 1px solid #e0e0e0; border-radius: 10px; padding: 16px; margin: 16px 0; background: #fafafa; }
    .form-grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 8px 16px; }
    @media (max-width: 760px) { .form-grid { grid-template-columns: 1fr 1fr; } }
    label { display: block; font-size: 0.85em; color: #555; margin-bottom: 4px; }
    input, select { width: 100%; padding: 6px 8px; border: 1px solid #ccc; border-radius: 6px; }
    .actions { margin-top: 12px; display: flex; gap: 8px; align-items: center; }
    .month { display: flex; gap: 12px; align-items: center; }
    .totals { font-weight: 600; margin: 12px 0; }
    table { border-collapse: collapse; width: 100%; }
    th, td { padding: 6px 8px; border: 1px solid #ddd; text-align: left; }
    th { background: #f0f0f0; }
    td.num { text-align: right; }
    .empty { text-align: center; color: #888; }
    form.inline { display: inline; margin: 0; }
    @media print { .no-print { display: none; } body { padding: 0; } }
  </style>
</head>
<body>
  <h2>Duty Register</h2>
  {{if .Warning}}<div class="warn">{{.Warning}}</div>{{end}}
  {{if .Error}}<div class="err">{{.Error}}</div>{{end}}

  <div class="card no-print">
    <form method="post" action="/entries">
      <input type="hidden" name="month" value="{{.Month}}">
      <div class="form-grid">
        <div><label for="date">Date</label><input type="date" id="date" name="date" value="{{.Draft.Date}}"></div>
        <div><label for="trainNo">Train No</label><input id="trainNo" name="trainNo" value="{{.Draft.TrainNo}}"></div>
        <div><label for="from">From</label><input id="from" name="from" value="{{.Draft.From}}"></div>
        <div><label for="to">To</label><input id="to" name="to" value="{{.Draft.To}}"></div>
        <div><label for="signOn">Sign On</label><input type="time" id="signOn" name="signOn" value="{{.Draft.SignOn}}"></div>
        <div><label for="signOff">Sign Off</label><input type="time" id="signOff" name="signOff" value="{{.Draft.SignOff}}"></div>
        <div><label for="km">KM</label><input type="number" step="any" min="0" id="km" name="km" value="{{.Draft.Km}}"></div>
        <div><label for="pr">PR</label>
          <select id="pr" name="pr">
            {{range .PRCodes}}<option value="{{.}}"{{if eq . $.Draft.PR}} selected{{end}}>{{if .}}{{.}}{{else}}-{{end}}</option>{{end}}
          </select>
        </div>
        <div style="grid-column: span 2"><label for="remarks">Remarks</label><input id="remarks" name="remarks" value="{{.Draft.Remarks}}"></div>
      </div>
      <div class="actions">
        <button type="submit">Add</button>
        <a href="/?month={{.Month}}">Clear</a>
        <a href="/export.csv?month={{.Month}}">Export CSV</a>
        <button type="button" onclick="window.print()">Print</button>
      </div>
    </form>
  </div>

  <div class="month no-print">
    <a href="/?month={{.Prev}}">&larr; {{.Prev.Label}}</a>
    <form method="get" action="/" class="inline">
      <input type="month" name="month" value="{{.Month}}" onchange="this.form.submit()">
    </form>
    <a href="/?month={{.Next}}">{{.Next.Label}} &rarr;</a>
  </div>

  <h3>{{.Month.Label}}</h3>
  <div class="totals">{{.View.Totals}}</div>

  <table>
    <thead>
      <tr>
        <th>Date</th><th>Train No</th><th>From</th><th>To</th><th>Sign On</th><th>Sign Off</th>
        <th>Duty Hrs</th><th>Night Hrs</th><th>PR</th><th>KM</th><th>Prog KM</th><th>Prog Duty</th><th>Remarks</th>
        <th class="no-print"></th>
      </tr>
    </thead>
    <tbody>
      {{range .View.Rows}}
      <tr>
        <td>{{.Date}}</td><td>{{.TrainNo}}</td><td>{{.From}}</td><td>{{.To}}</td>
        <td>{{.SignOn}}</td><td>{{.SignOff}}</td>
        <td class="num">{{hours .DutyHours}}</td><td class="num">{{hours .NightHours}}</td>
        <td>{{.PR}}</td><td class="num">{{num .Km}}</td>
        <td class="num">{{num .ProgressiveKm}}</td><td class="num">{{hours .ProgressiveDuty}}</td>
        <td>{{.Remarks}}</td>
        <td class="no-print">
          <form method="post" action="/entries/{{.ID}}/delete" class="inline">
            <input type="hidden" name="month" value="{{$.Month}}">
            <button type="submit">Delete</button>
          </form>
        </td>
      </tr>
      {{else}}
      <tr><td colspan="14" class="empty">No entries</td></tr>
      {{end}}
    </tbody>
  </table>
</body>
</html>
`
