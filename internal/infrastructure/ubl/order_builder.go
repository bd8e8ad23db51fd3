// Package ubl construye la orden de compra como documento UBL 2.1 Order para intercambio con proveedores.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/procurement-api/internal/application/purchasing"
)

// Namespaces UBL 2.1.
const (
	NsOrder = "urn:oasis:names:specification:ubl:schema:xsd:Order-2"
	NsCac   = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc   = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion    = "2.1"
	customization = "urn:www.cenbii.eu:transaction:biitrns001:ver2.0"
)

var _ purchasing.OrderDocumentBuilder = (*OrderBuilder)(nil)

// OrderBuilder implementa purchasing.OrderDocumentBuilder.
type OrderBuilder struct {
	buyerName string
}

// NewOrderBuilder crea el builder. buyerName identifica a la organización compradora.
func NewOrderBuilder(buyerName string) *OrderBuilder {
	return &OrderBuilder{buyerName: buyerName}
}

// BuildOrder genera el XML y el digest SHA-256 (base64) de la forma canónica C14N del elemento raíz.
func (b *OrderBuilder) BuildOrder(doc *purchasing.PurchaseOrderDocument) ([]byte, string, error) {
	if doc == nil || doc.Order == nil || doc.Supplier == nil {
		return nil, "", fmt.Errorf("ubl: faltan orden o proveedor")
	}
	po := doc.Order

	d := etree.NewDocument()
	root := d.CreateElement("Order")
	root.CreateAttr("xmlns", NsOrder)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", ublVersion)
	cbc(root, "CustomizationID", customization)
	cbc(root, "ID", po.PONumber)
	cbc(root, "IssueDate", po.OrderDate.Format("2006-01-02"))
	if po.Notes != "" {
		cbc(root, "Note", po.Notes)
	}
	cbc(root, "DocumentCurrencyCode", po.Currency)

	buyer := root.CreateElement("cac:BuyerCustomerParty").CreateElement("cac:Party")
	buyer.CreateElement("cac:PartyName").CreateElement("cbc:Name").SetText(b.buyerName)
	if doc.BuyerName != "" {
		buyer.CreateElement("cac:Contact").CreateElement("cbc:Name").SetText(doc.BuyerName)
	}

	s := doc.Supplier
	seller := root.CreateElement("cac:SellerSupplierParty")
	cbc(seller, "CustomerAssignedAccountID", s.Code)
	party := seller.CreateElement("cac:Party")
	party.CreateElement("cac:PartyName").CreateElement("cbc:Name").SetText(s.Name)
	if s.TaxID != "" {
		party.CreateElement("cac:PartyTaxScheme").CreateElement("cbc:CompanyID").SetText(s.TaxID)
	}
	if s.Email != "" || s.Phone != "" {
		contact := party.CreateElement("cac:Contact")
		if s.Phone != "" {
			cbc(contact, "Telephone", s.Phone)
		}
		if s.Email != "" {
			cbc(contact, "ElectronicMail", s.Email)
		}
	}

	if po.ExpectedDeliveryDate != nil {
		period := root.CreateElement("cac:Delivery").CreateElement("cac:RequestedDeliveryPeriod")
		cbc(period, "EndDate", po.ExpectedDeliveryDate.Format("2006-01-02"))
	}
	if s.PaymentTerms > 0 {
		cbc(root.CreateElement("cac:PaymentTerms"), "Note", fmt.Sprintf("%d días", s.PaymentTerms))
	}

	total := root.CreateElement("cac:AnticipatedMonetaryTotal")
	amount(total, "LineExtensionAmount", po.TotalAmount.StringFixed(2), po.Currency)
	amount(total, "PayableAmount", po.TotalAmount.StringFixed(2), po.Currency)

	for i, l := range doc.Lines {
		line := root.CreateElement("cac:OrderLine").CreateElement("cac:LineItem")
		cbc(line, "ID", strconv.Itoa(i+1))
		qty := line.CreateElement("cbc:Quantity")
		qty.CreateAttr("unitCode", unitCode(l.UnitMeasure))
		qty.SetText(strconv.FormatInt(l.Quantity, 10))
		amount(line, "LineExtensionAmount", l.TotalPrice.StringFixed(2), po.Currency)
		price := line.CreateElement("cac:Price")
		amount(price, "PriceAmount", l.UnitPrice.StringFixed(2), po.Currency)
		item := line.CreateElement("cac:Item")
		cbc(item, "Name", l.ProductName)
		item.CreateElement("cac:SellersItemIdentification").CreateElement("cbc:ID").SetText(l.SKU)
	}

	d.Indent(2)
	out, err := d.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return append([]byte(xml.Header), out...), digest, nil
}

// Digest calcula el SHA-256 (base64) de la forma canónica C14N del XML.
func Digest(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag, value, currency string) {
	cbc(parent, tag, value).CreateAttr("currencyID", currency)
}

// unitCode traduce la unidad del producto al código UN/ECE Rec 20 (C62 = unidad).
func unitCode(measure string) string {
	switch measure {
	case "kg":
		return "KGM"
	case "g":
		return "GRM"
	case "l", "lt":
		return "LTR"
	case "m":
		return "MTR"
	case "box", "caja":
		return "BX"
	default:
		return "C62"
	}
}
