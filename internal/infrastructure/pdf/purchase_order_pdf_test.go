package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999.5":      "999.50",
		"1000":       "1,000.00",
		"1234567.25": "1,234,567.25",
		"-2500":      "-2,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGeneratePurchaseOrderPDF_GeneraDocumento(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := &purchasing.PurchaseOrderDocument{
		Order: &entity.PurchaseOrder{
			PONumber:             "PO-20260201-ABCDEF12",
			Status:               entity.POStatusOrdered,
			OrderDate:            time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			ExpectedDeliveryDate: &due,
			TotalAmount:          decimal.RequireFromString("150"),
			Currency:             "USD",
			TermsAndConditions:   "Pago a 30 días",
		},
		Supplier: &entity.Supplier{Code: "SUP-001", Name: "Acme Supplies", Email: "ventas@acme.test", PaymentTerms: 30},
		Lines: []purchasing.DocumentLine{{
			PurchaseOrderItem: entity.PurchaseOrderItem{
				Quantity:   10,
				UnitPrice:  decimal.RequireFromString("10"),
				TotalPrice: decimal.RequireFromString("100"),
			},
			SKU:         "WID-1",
			ProductName: "Widget",
		}},
		BuyerName: "Ana Compras",
	}

	out, err := NewMarotoPDFGenerator("Acme Corp").GeneratePurchaseOrderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGeneratePurchaseOrderPDF_DocumentoIncompleto(t *testing.T) {
	_, err := NewMarotoPDFGenerator("").GeneratePurchaseOrderPDF(context.Background(), &purchasing.PurchaseOrderDocument{})
	assert.Error(t, err)
}
