package models

type InvoiceLine struct {
	Product string `json:"product" bson:"product"`
}

type Invoice struct {
	Base            `bson:",inline"`
	CustomerInvoice string        `json:"customerInvoice" bson:"customerInvoice"`
	Project         string        `json:"project" bson:"project"`
	ProjectID       string        `json:"projectId,omitempty" bson:"projectId,omitempty"`
	InvoiceLines    []InvoiceLine `json:"invoiceLines" bson:"invoiceLines"`
}

func (i *Invoice) ApplyDefaults() {
	if i.InvoiceLines == nil {
		i.InvoiceLines = []InvoiceLine{}
	}
}

func (i *Invoice) Validate() error {
	return required("customerInvoice", i.CustomerInvoice)
}

func (i *Invoice) ProjectName() string    { return i.Project }
func (i *Invoice) SetProjectID(id string) { i.ProjectID = id }

// VendorBill has no project reference.
type VendorBill struct {
	Base         `bson:",inline"`
	Vendor       string        `json:"vendorBill" bson:"vendorBill"`
	InvoiceLines []InvoiceLine `json:"invoiceLines" bson:"invoiceLines"`
}

func (v *VendorBill) ApplyDefaults() {
	if v.InvoiceLines == nil {
		v.InvoiceLines = []InvoiceLine{}
	}
}

func (v *VendorBill) Validate() error {
	return required("vendorBill", v.Vendor)
}
