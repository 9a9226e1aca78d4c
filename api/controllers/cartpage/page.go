package cartpage

import "html/template"

// pageTemplate renders the cart page from a watcher snapshot. Each phase has
// its own block so a failed fetch is never mistaken for an empty cart.
var pageTemplate = template.Must(template.New("cartpage").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Your cart</title>
</head>
<body>
  <main>
    <h1>Your cart</h1>
{{- if eq .Phase "ready"}}
    <p class="cart-total">Total items: {{.Cart.TotalItems}}</p>
    <p class="cart-subtotal">Subtotal: {{.Cart.SubTotal.Formatted}}</p>
    <ul class="cart-items">
{{- range .Cart.Items}}
      <li>{{.Name}} &times; {{.Quantity}} ({{.UnitTotal.Formatted}} each)</li>
{{- end}}
    </ul>
{{- else if eq .Phase "failed"}}
    <p class="cart-error">We could not load your cart right now. Please try again shortly.</p>
{{- else}}
    <p class="cart-loading">Loading your cart&hellip;</p>
{{- end}}
  </main>
</body>
</html>
`))
