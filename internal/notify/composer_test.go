package notify_test

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benytrp/e3-ordertst/internal/models"
	"github.com/benytrp/e3-ordertst/internal/notify"
)

const (
	testFrom     = "orders@e3store.example.com"
	testBusiness = "shop@e3store.example.com"
)

func janeOrder() models.Order {
	orderDate, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	return models.Order{
		Customer: &models.Customer{
			Name:  "Jane Doe",
			Email: "jane@example.com",
		},
		Items: []models.LineItem{
			{Name: "Sticker", Quantity: 2, Price: 3.5, Subtotal: 7.0},
		},
		Total:     7.0,
		OrderDate: orderDate,
	}
}

func TestComposeAddressesAndSubjects(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)

	business, customer := composer.Compose(janeOrder(), "E3-1700000000000-A1B2C3D4E")

	assert.Equal(t, testBusiness, business.To)
	assert.Equal(t, testFrom, business.From)
	assert.Contains(t, business.Subject, "E3-1700000000000-A1B2C3D4E")
	assert.Contains(t, business.Subject, "Jane Doe")
	assert.Contains(t, business.Subject, "$7.00")

	assert.Equal(t, "jane@example.com", customer.To)
	assert.Equal(t, testFrom, customer.From)
	assert.Contains(t, customer.Subject, "E3-1700000000000-A1B2C3D4E")
}

func TestComposeItemRowsAndTotal(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)

	business, customer := composer.Compose(janeOrder(), "E3-1-AAAAAAAAA")

	for _, body := range []string{business.TextBody, customer.TextBody} {
		assert.Contains(t, body, "2 x Sticker @ $3.50 = $7.00")
		assert.Contains(t, body, "Total: $7.00")
	}
	for _, body := range []string{business.HTMLBody, customer.HTMLBody} {
		assert.Contains(t, body, "<td>Sticker</td>")
		assert.Contains(t, body, "<td>$3.50</td>")
		assert.Contains(t, body, "<td>$7.00</td>")
		assert.Contains(t, body, "Total: $7.00")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)
	order := janeOrder()
	order.Customer.Phone = "555-0100"
	order.Customer.SpecialInstructions = "Leave at the front desk"

	b1, c1 := composer.Compose(order, "E3-1-AAAAAAAAA")
	b2, c2 := composer.Compose(order, "E3-1-AAAAAAAAA")

	assert.Equal(t, b1, b2)
	assert.Equal(t, c1, c2)
}

func TestComposeOptionalFieldsAbsent(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)

	business, _ := composer.Compose(janeOrder(), "E3-1-AAAAAAAAA")

	// Empty contact fields render as an explicit absence marker in the
	// business copy, in both renderings.
	assert.Contains(t, business.TextBody, "Phone:   N/A")
	assert.Contains(t, business.TextBody, "Address: N/A")
	assert.Contains(t, business.TextBody, "Student: N/A")
	assert.Contains(t, business.HTMLBody, "N/A")

	// The special instructions section is omitted entirely when empty,
	// consistently in both renderings.
	assert.NotContains(t, business.TextBody, "Special Instructions")
	assert.NotContains(t, business.HTMLBody, "Special Instructions")
}

func TestComposeOptionalFieldsPresent(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)
	order := janeOrder()
	order.Customer.Phone = "555-0100"
	order.Customer.Address = "12 High St"
	order.Customer.StudentName = "Sam Doe"
	order.Customer.SpecialInstructions = "Gift wrap please"

	business, _ := composer.Compose(order, "E3-1-AAAAAAAAA")

	for _, want := range []string{"555-0100", "12 High St", "Sam Doe", "Gift wrap please", "Special Instructions"} {
		assert.Contains(t, business.TextBody, want)
		assert.Contains(t, business.HTMLBody, want)
	}
	assert.NotContains(t, business.TextBody, "N/A")
}

func TestComposePolicyLinesOnlyInCustomerCopy(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)

	business, customer := composer.Compose(janeOrder(), "E3-1-AAAAAAAAA")

	assert.Contains(t, customer.TextBody, "2-3 weeks")
	assert.Contains(t, customer.TextBody, "Rush orders")
	assert.Contains(t, customer.HTMLBody, "2-3 weeks")
	assert.Contains(t, customer.HTMLBody, "Rush orders")

	assert.NotContains(t, business.TextBody, "Rush orders")
	assert.NotContains(t, business.HTMLBody, "Rush orders")
}

func TestComposeEscapesCustomerTextInHTML(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)
	order := janeOrder()
	order.Customer.Name = `Jane <script>alert("x")</script>`

	business, customer := composer.Compose(order, "E3-1-AAAAAAAAA")

	assert.NotContains(t, business.HTMLBody, "<script>")
	assert.NotContains(t, customer.HTMLBody, "<script>")
	assert.Contains(t, business.HTMLBody, "&lt;script&gt;")
}

// Compose must be total: any order that passed validation renders without
// failing, whatever mix of optional fields it carries.
func TestComposeIsTotalOverRandomOrders(t *testing.T) {
	composer := notify.NewComposer(testFrom, testBusiness)
	faker := gofakeit.New(11)

	for i := 0; i < 50; i++ {
		order := models.Order{
			Customer: &models.Customer{
				Name:  faker.Name(),
				Email: faker.Email(),
			},
			Total:     faker.Price(1, 500),
			OrderDate: faker.Date(),
		}
		if faker.Bool() {
			order.Customer.Phone = faker.Phone()
		}
		if faker.Bool() {
			order.Customer.Address = faker.Address().Address
		}
		if faker.Bool() {
			order.Customer.StudentName = faker.Name()
		}
		if faker.Bool() {
			order.Customer.SpecialInstructions = faker.Sentence(8)
		}
		for j := 0; j < faker.Number(1, 5); j++ {
			price := faker.Price(1, 50)
			qty := faker.Number(1, 10)
			order.Items = append(order.Items, models.LineItem{
				Name:     faker.ProductName(),
				Quantity: qty,
				Price:    price,
				Subtotal: price * float64(qty),
			})
		}

		business, customer := composer.Compose(order, "E3-1-AAAAAAAAA")

		require.NotEmpty(t, business.TextBody)
		require.NotEmpty(t, business.HTMLBody)
		require.NotEmpty(t, customer.TextBody)
		require.NotEmpty(t, customer.HTMLBody)
		require.Equal(t, order.Customer.Email, customer.To)

		// Presence markers must agree between plain and HTML copies.
		phoneNA := strings.Contains(business.TextBody, "Phone:   N/A")
		assert.Equal(t, order.Customer.Phone == "", phoneNA)
		instructions := strings.Contains(business.TextBody, "Special Instructions")
		assert.Equal(t, order.Customer.SpecialInstructions != "",
			instructions)
		assert.Equal(t, instructions,
			strings.Contains(business.HTMLBody, "Special Instructions"))
	}
}
