package printing

const receiptTemplateName = "receipt"

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.ReceiptNumber}}</title>
<style>
  body { font-family: "Sarabun", "Noto Sans Thai", sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 18px; margin: 0 0 4px; }
  .meta { color: #666; margin-bottom: 16px; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 4px 0; vertical-align: top; }
  td.label { width: 40%; color: #555; }
  .total { font-size: 16px; font-weight: bold; border-top: 1px solid #222; padding-top: 8px; }
</style>
</head>
<body>
  <h1>Payment Receipt</h1>
  <div class="meta">No. {{.ReceiptNumber}} &middot; {{datetime .PaidAt}}</div>
  <table>
    <tr><td class="label">Contract</td><td>{{.ContractNumber}}</td></tr>
    <tr><td class="label">Customer</td><td>{{.CustomerName}}</td></tr>
    {{- if .CustomerAddress}}
    <tr><td class="label">Address</td><td>{{.CustomerAddress}}</td></tr>
    {{- end}}
    <tr><td class="label">Asset</td><td>{{.AssetName}}</td></tr>
    {{- if .InstallmentNumber}}
    <tr><td class="label">Installment</td><td>{{.InstallmentNumber}}{{if .InstallmentsCount}} / {{.InstallmentsCount}}{{end}}</td></tr>
    <tr><td class="label">Due date</td><td>{{date .DueDate}}</td></tr>
    {{- end}}
    <tr><td class="label">Payment method</td><td>{{label .PaymentMethod}}</td></tr>
    <tr><td class="label total">Amount paid</td><td class="total">{{money .Amount}}</td></tr>
  </table>
</body>
</html>
`
