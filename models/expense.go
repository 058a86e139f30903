package models

// Expense has no monetary amount; the dashboard prices each expense with a
// flat configured cost.
type Expense struct {
	Base          `bson:",inline"`
	Name          string `json:"name" bson:"name"`
	ExpensePeriod string `json:"expensePeriod" bson:"expensePeriod"`
	Project       string `json:"project" bson:"project"`
	ProjectID     string `json:"projectId,omitempty" bson:"projectId,omitempty"`
	Image         string `json:"image" bson:"image"`
	Description   string `json:"description" bson:"description"`
}

func (e *Expense) ApplyDefaults() {}

func (e *Expense) Validate() error {
	return required("name", e.Name)
}

func (e *Expense) ProjectName() string    { return e.Project }
func (e *Expense) SetProjectID(id string) { e.ProjectID = id }
