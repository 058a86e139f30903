package models

// OrderLine is one product row of a sales or purchase order. Amount is
// derived from the other numeric fields on every write.
type OrderLine struct {
	Product   string `json:"product" bson:"product"`
	Quantity  Number `json:"quantity" bson:"quantity"`
	Unit      string `json:"unit" bson:"unit"`
	UnitPrice Number `json:"unitPrice" bson:"unitPrice"`
	Taxes     Number `json:"taxes" bson:"taxes"`
	Amount    Number `json:"amount" bson:"amount"`
}

// Order is the behaviour shared by sales and purchase orders.
type Order interface {
	Entity
	GetOrderNumber() string
	SetOrderNumber(number string)
	GetLines() []OrderLine
	SetComputed(lines []OrderLine, untaxed, total Number)
}

type SalesOrder struct {
	Base          `bson:",inline"`
	OrderNumber   string      `json:"orderNumber" bson:"orderNumber"`
	Customer      string      `json:"customer" bson:"customer"`
	Project       string      `json:"project" bson:"project"`
	ProjectID     string      `json:"projectId,omitempty" bson:"projectId,omitempty"`
	OrderLines    []OrderLine `json:"orderLines" bson:"orderLines"`
	UntaxedAmount Number      `json:"untaxedAmount" bson:"untaxedAmount"`
	Total         Number      `json:"total" bson:"total"`
}

func (o *SalesOrder) ApplyDefaults() {
	if o.OrderLines == nil {
		o.OrderLines = []OrderLine{}
	}
}

func (o *SalesOrder) Validate() error {
	if err := required("orderNumber", o.OrderNumber); err != nil {
		return err
	}
	return required("customer", o.Customer)
}

func (o *SalesOrder) GetOrderNumber() string       { return o.OrderNumber }
func (o *SalesOrder) SetOrderNumber(number string) { o.OrderNumber = number }
func (o *SalesOrder) GetLines() []OrderLine        { return o.OrderLines }

func (o *SalesOrder) SetComputed(lines []OrderLine, untaxed, total Number) {
	o.OrderLines = lines
	o.UntaxedAmount = untaxed
	o.Total = total
}

func (o *SalesOrder) ProjectName() string    { return o.Project }
func (o *SalesOrder) SetProjectID(id string) { o.ProjectID = id }

type PurchaseOrder struct {
	Base          `bson:",inline"`
	OrderNumber   string      `json:"orderNumber" bson:"orderNumber"`
	Vendor        string      `json:"vendor" bson:"vendor"`
	Project       string      `json:"project" bson:"project"`
	ProjectID     string      `json:"projectId,omitempty" bson:"projectId,omitempty"`
	OrderLines    []OrderLine `json:"orderLines" bson:"orderLines"`
	UntaxedAmount Number      `json:"untaxedAmount" bson:"untaxedAmount"`
	Total         Number      `json:"total" bson:"total"`
}

func (o *PurchaseOrder) ApplyDefaults() {
	if o.OrderLines == nil {
		o.OrderLines = []OrderLine{}
	}
}

func (o *PurchaseOrder) Validate() error {
	if err := required("orderNumber", o.OrderNumber); err != nil {
		return err
	}
	return required("vendor", o.Vendor)
}

func (o *PurchaseOrder) GetOrderNumber() string       { return o.OrderNumber }
func (o *PurchaseOrder) SetOrderNumber(number string) { o.OrderNumber = number }
func (o *PurchaseOrder) GetLines() []OrderLine        { return o.OrderLines }

func (o *PurchaseOrder) SetComputed(lines []OrderLine, untaxed, total Number) {
	o.OrderLines = lines
	o.UntaxedAmount = untaxed
	o.Total = total
}

func (o *PurchaseOrder) ProjectName() string    { return o.Project }
func (o *PurchaseOrder) SetProjectID(id string) { o.ProjectID = id }
