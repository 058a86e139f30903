// Package services holds the business logic behind the HTTP handlers.
package services

import (
	"erp-project/backend/config"
	"erp-project/backend/models"
	"erp-project/backend/store"
)

type (
	ProjectService       = ResourceService[models.Project, *models.Project]
	TaskService          = ResourceService[models.Task, *models.Task]
	SalesOrderService    = OrderService[models.SalesOrder, *models.SalesOrder]
	PurchaseOrderService = OrderService[models.PurchaseOrder, *models.PurchaseOrder]
	InvoiceService       = ResourceService[models.Invoice, *models.Invoice]
	VendorBillService    = ResourceService[models.VendorBill, *models.VendorBill]
	ExpenseService       = ResourceService[models.Expense, *models.Expense]
)

type Services struct {
	Projects       *ProjectService
	Tasks          *TaskService
	SalesOrders    *SalesOrderService
	PurchaseOrders *PurchaseOrderService
	Invoices       *InvoiceService
	VendorBills    *VendorBillService
	Expenses       *ExpenseService
	Users          *UserService
	Dashboard      *DashboardService
	Admin          *AdminService
}

func New(stores *store.Stores, dashboard config.Dashboard) *Services {
	svc := &Services{
		Projects: NewResourceService[models.Project]("Project", stores.Projects),
		Tasks: NewResourceService[models.Task]("Task", stores.Tasks,
			WithProjectLookup[models.Task](stores.Projects)),
		SalesOrders:    NewOrderService[models.SalesOrder]("Sales order", stores.SalesOrders, stores.Projects),
		PurchaseOrders: NewOrderService[models.PurchaseOrder]("Purchase order", stores.PurchaseOrders, stores.Projects),
		Invoices: NewResourceService[models.Invoice]("Invoice", stores.Invoices,
			WithProjectLookup[models.Invoice](stores.Projects)),
		VendorBills: NewResourceService[models.VendorBill]("Vendor bill", stores.VendorBills),
		Expenses: NewResourceService[models.Expense]("Expense", stores.Expenses,
			WithProjectLookup[models.Expense](stores.Projects)),
		Users:     NewUserService(stores.Users),
		Dashboard: NewDashboardService(stores, dashboard),
	}
	svc.Admin = NewAdminService(stores, svc)
	return svc
}
