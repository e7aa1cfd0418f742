package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/benytrp/e3-ordertst/internal/models"
)

// Composer renders the business and customer notification messages for an
// order. Rendering is pure: same order and order number in, byte-identical
// messages out. It performs no I/O and must not fail for any order that
// passed validation.
type Composer struct {
	from          string
	businessEmail string
}

// NewComposer creates a Composer sending from the given address, with the
// business copy addressed to businessEmail.
func NewComposer(from, businessEmail string) *Composer {
	return &Composer{
		from:          from,
		businessEmail: businessEmail,
	}
}

// Compose renders both notification copies for one order.
func (c *Composer) Compose(order models.Order, orderNumber string) (business, customer Message) {
	data := buildRenderData(order, orderNumber)

	business = Message{
		From:     c.from,
		To:       c.businessEmail,
		Subject:  fmt.Sprintf("New Order %s from %s (%s)", data.OrderNumber, data.Name, data.Total),
		TextBody: businessText(data),
		HTMLBody: renderHTML(businessHTMLTmpl, data),
	}
	customer = Message{
		From:     c.from,
		To:       order.Customer.Email,
		Subject:  fmt.Sprintf("Order Confirmation %s", data.OrderNumber),
		TextBody: customerText(data),
		HTMLBody: renderHTML(customerHTMLTmpl, data),
	}
	return business, customer
}

// renderData carries preformatted strings so the plain and HTML copies
// cannot drift apart on formatting.
type renderData struct {
	OrderNumber     string
	OrderDate       string
	Name            string
	Email           string
	Phone           string
	Address         string
	StudentName     string
	Instructions    string
	HasInstructions bool
	Items           []renderItem
	Total           string
}

type renderItem struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

func buildRenderData(order models.Order, orderNumber string) renderData {
	cust := order.Customer

	items := make([]renderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, renderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    formatUSD(item.Price),
			Subtotal: formatUSD(item.Subtotal),
		})
	}

	instructions := strings.TrimSpace(cust.SpecialInstructions)

	return renderData{
		OrderNumber:     orderNumber,
		OrderDate:       order.OrderDate.Format("January 2, 2006"),
		Name:            cust.Name,
		Email:           cust.Email,
		Phone:           orNA(cust.Phone),
		Address:         orNA(cust.Address),
		StudentName:     orNA(cust.StudentName),
		Instructions:    instructions,
		HasInstructions: instructions != "",
		Items:           items,
		// The declared total is echoed as submitted, never recomputed
		// from the line items.
		Total: formatUSD(order.Total),
	}
}

// formatUSD renders a currency amount with exactly two decimal places.
func formatUSD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func businessText(data renderData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A new order has come in through the order form.\n\n")
	fmt.Fprintf(&b, "Order Number: %s\n", data.OrderNumber)
	fmt.Fprintf(&b, "Order Date: %s\n\n", data.OrderDate)

	fmt.Fprintf(&b, "Customer\n")
	fmt.Fprintf(&b, "  Name:    %s\n", data.Name)
	fmt.Fprintf(&b, "  Email:   %s\n", data.Email)
	fmt.Fprintf(&b, "  Phone:   %s\n", data.Phone)
	fmt.Fprintf(&b, "  Address: %s\n", data.Address)
	fmt.Fprintf(&b, "  Student: %s\n\n", data.StudentName)

	writeItemsText(&b, data)

	if data.HasInstructions {
		fmt.Fprintf(&b, "\nSpecial Instructions:\n%s\n", data.Instructions)
	}

	return b.String()
}

func customerText(data renderData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", data.Name)
	fmt.Fprintf(&b, "Thank you for your order! Here is what we received.\n\n")
	fmt.Fprintf(&b, "Order Number: %s\n", data.OrderNumber)
	fmt.Fprintf(&b, "Order Date: %s\n\n", data.OrderDate)

	writeItemsText(&b, data)

	fmt.Fprintf(&b, "\nPlease allow 2-3 weeks for your order to be completed. Rush orders can\n")
	fmt.Fprintf(&b, "be accommodated for an additional fee; reply to this email if you need\n")
	fmt.Fprintf(&b, "your order sooner.\n\n")
	fmt.Fprintf(&b, "Thank you,\nThe E3 Store\n")

	return b.String()
}

func writeItemsText(b *strings.Builder, data renderData) {
	fmt.Fprintf(b, "Items\n")
	for _, item := range data.Items {
		fmt.Fprintf(b, "  %d x %s @ %s = %s\n", item.Quantity, item.Name, item.Price, item.Subtotal)
	}
	fmt.Fprintf(b, "\nTotal: %s\n", data.Total)
}

// renderHTML executes a fixed template over a closed data shape; an
// execution error here is a programming bug, so it panics and surfaces as
// a generic internal failure upstream.
func renderHTML(t *template.Template, data renderData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}

var businessHTMLTmpl = template.Must(template.New("business").Parse(`<h2>New Order {{.OrderNumber}}</h2>
<p><strong>Order Date:</strong> {{.OrderDate}}</p>
<h3>Customer</h3>
<table cellpadding="4" cellspacing="0">
  <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
  <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
  <tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>
  <tr><td><strong>Address</strong></td><td>{{.Address}}</td></tr>
  <tr><td><strong>Student</strong></td><td>{{.StudentName}}</td></tr>
</table>
<h3>Items</h3>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Item</th><th>Qty</th><th>Unit Price</th><th>Subtotal</th></tr>
{{- range .Items}}
  <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td><td>{{.Subtotal}}</td></tr>
{{- end}}
</table>
<p><strong>Total: {{.Total}}</strong></p>
{{- if .HasInstructions}}
<h3>Special Instructions</h3>
<p>{{.Instructions}}</p>
{{- end}}
`))

var customerHTMLTmpl = template.Must(template.New("customer").Parse(`<p>Hi {{.Name}},</p>
<p>Thank you for your order! Here is what we received.</p>
<p><strong>Order Number:</strong> {{.OrderNumber}}<br>
<strong>Order Date:</strong> {{.OrderDate}}</p>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Item</th><th>Qty</th><th>Unit Price</th><th>Subtotal</th></tr>
{{- range .Items}}
  <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td><td>{{.Subtotal}}</td></tr>
{{- end}}
</table>
<p><strong>Total: {{.Total}}</strong></p>
<p>Please allow 2-3 weeks for your order to be completed. Rush orders can
be accommodated for an additional fee; reply to this email if you need
your order sooner.</p>
<p>Thank you,<br>The E3 Store</p>
`))
