package ubl_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/infrastructure/ubl"
)

func sampleDocument() *purchasing.PurchaseOrderDocument {
	return &purchasing.PurchaseOrderDocument{
		Order: &entity.PurchaseOrder{
			PONumber:    "PO-20260201-ABCDEF12",
			OrderDate:   time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			TotalAmount: decimal.RequireFromString("150"),
			Currency:    "USD",
		},
		Supplier: &entity.Supplier{Code: "SUP-001", Name: "Acme & Sons", TaxID: "900123456", Email: "ventas@acme.test"},
		Lines: []purchasing.DocumentLine{
			{
				PurchaseOrderItem: entity.PurchaseOrderItem{
					Quantity: 10, UnitPrice: decimal.RequireFromString("10"), TotalPrice: decimal.RequireFromString("100"),
				},
				SKU: "WID-1", ProductName: "Widget", UnitMeasure: "unit",
			},
			{
				PurchaseOrderItem: entity.PurchaseOrderItem{
					Quantity: 50, UnitPrice: decimal.RequireFromString("1"), TotalPrice: decimal.RequireFromString("50"),
				},
				SKU: "BOLT-1", ProductName: "Bolt", UnitMeasure: "kg",
			},
		},
	}
}

func TestBuildOrder_EstructuraUBL(t *testing.T) {
	out, digest, err := ubl.NewOrderBuilder("Acme Corp").BuildOrder(sampleDocument())
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Order", root.Tag)
	assert.Equal(t, ubl.NsOrder, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "PO-20260201-ABCDEF12", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "2026-02-01", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "Acme & Sons", root.FindElement("cac:SellerSupplierParty/cac:Party/cac:PartyName/cbc:Name").Text())

	lines := root.FindElements("cac:OrderLine/cac:LineItem")
	require.Len(t, lines, 2)
	qty := lines[1].FindElement("cbc:Quantity")
	assert.Equal(t, "50", qty.Text())
	assert.Equal(t, "KGM", qty.SelectAttrValue("unitCode", ""))
	assert.Equal(t, "150.00", root.FindElement("cac:AnticipatedMonetaryTotal/cbc:PayableAmount").Text())
}

func TestBuildOrder_DigestDeterminista(t *testing.T) {
	b := ubl.NewOrderBuilder("Acme Corp")
	_, d1, err := b.BuildOrder(sampleDocument())
	require.NoError(t, err)
	_, d2, err := b.BuildOrder(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	changed := sampleDocument()
	changed.Order.PONumber = "PO-20260201-00000000"
	_, d3, err := b.BuildOrder(changed)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestBuildOrder_DocumentoIncompleto(t *testing.T) {
	_, _, err := ubl.NewOrderBuilder("Acme").BuildOrder(&purchasing.PurchaseOrderDocument{})
	assert.Error(t, err)
}
