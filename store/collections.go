package store

import (
	"context"
	"fmt"
	"time"

	"erp-project/backend/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProjectsCollection       = "projects"
	TasksCollection          = "tasks"
	SalesOrdersCollection    = "salesorders"
	PurchaseOrdersCollection = "purchaseorders"
	InvoicesCollection       = "invoices"
	VendorBillsCollection    = "vendorbills"
	ExpensesCollection       = "expenses"
	UsersCollection          = "users"
)

// Stores groups every collection the application uses.
type Stores struct {
	Projects       Collection[models.Project]
	Tasks          Collection[models.Task]
	SalesOrders    Collection[models.SalesOrder]
	PurchaseOrders Collection[models.PurchaseOrder]
	Invoices       Collection[models.Invoice]
	VendorBills    Collection[models.VendorBill]
	Expenses       Collection[models.Expense]
	Users          Collection[models.User]
}

func NewMemoryStores() *Stores {
	return &Stores{
		Projects:       NewMemoryCollection[models.Project](ProjectsCollection),
		Tasks:          NewMemoryCollection[models.Task](TasksCollection),
		SalesOrders:    NewMemoryCollection[models.SalesOrder](SalesOrdersCollection, "orderNumber"),
		PurchaseOrders: NewMemoryCollection[models.PurchaseOrder](PurchaseOrdersCollection, "orderNumber"),
		Invoices:       NewMemoryCollection[models.Invoice](InvoicesCollection),
		VendorBills:    NewMemoryCollection[models.VendorBill](VendorBillsCollection),
		Expenses:       NewMemoryCollection[models.Expense](ExpensesCollection),
		Users:          NewMemoryCollection[models.User](UsersCollection, "email"),
	}
}

// ConnectMongo opens the client, verifies it with a ping and creates the
// unique indexes. The returned func disconnects the client.
func ConnectMongo(ctx context.Context, uri, dbName string) (*Stores, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo connection error: %w", err)
	}

	db := client.Database(dbName)
	salesOrders := NewMongoCollection[models.SalesOrder](db.Collection(SalesOrdersCollection))
	purchaseOrders := NewMongoCollection[models.PurchaseOrder](db.Collection(PurchaseOrdersCollection))
	users := NewMongoCollection[models.User](db.Collection(UsersCollection))

	indexes := []struct {
		ensure func(context.Context, ...string) error
		field  string
	}{
		{salesOrders.EnsureUnique, "orderNumber"},
		{purchaseOrders.EnsureUnique, "orderNumber"},
		{users.EnsureUnique, "email"},
	}
	for _, idx := range indexes {
		if err := idx.ensure(connectCtx, idx.field); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
	}

	stores := &Stores{
		Projects:       NewMongoCollection[models.Project](db.Collection(ProjectsCollection)),
		Tasks:          NewMongoCollection[models.Task](db.Collection(TasksCollection)),
		SalesOrders:    salesOrders,
		PurchaseOrders: purchaseOrders,
		Invoices:       NewMongoCollection[models.Invoice](db.Collection(InvoicesCollection)),
		VendorBills:    NewMongoCollection[models.VendorBill](db.Collection(VendorBillsCollection)),
		Expenses:       NewMongoCollection[models.Expense](db.Collection(ExpensesCollection)),
		Users:          users,
	}
	return stores, client.Disconnect, nil
}
