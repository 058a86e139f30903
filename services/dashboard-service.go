package services

import (
	"context"
	"math"
	"strings"

	"erp-project/backend/config"
	"erp-project/backend/models"
	"erp-project/backend/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalProjects  int     `json:"totalProjects"`
	TasksCompleted int     `json:"tasksCompleted"`
	HoursLogged    float64 `json:"hoursLogged"`
}

type TaxExpense struct {
	TotalTax          float64 `json:"totalTax"`
	TotalExpenses     float64 `json:"totalExpenses"`
	TaxPercentage     int     `json:"taxPercentage"`
	ExpensePercentage int     `json:"expensePercentage"`
}

type ProjectProgress struct {
	Project    string `json:"project"`
	TotalTasks int    `json:"totalTasks"`
	DoneTasks  int    `json:"doneTasks"`
	Progress   int    `json:"progress"`
}

type ResourceUsage struct {
	Assignee    string  `json:"assignee"`
	Hours       float64 `json:"hours"`
	Capacity    float64 `json:"capacity"`
	Utilization int     `json:"utilization"`
}

type CostRevenue struct {
	Project string  `json:"project"`
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
}

type Dashboard struct {
	Stats               DashboardStats    `json:"stats"`
	TaxVsExpenses       TaxExpense        `json:"taxVsExpenses"`
	ProjectProgress     []ProjectProgress `json:"projectProgress"`
	ResourceUtilization []ResourceUsage   `json:"resourceUtilization"`
	CostVsRevenue       []CostRevenue     `json:"costVsRevenue"`
}

// DashboardService aggregates every collection into summary figures. Nothing
// is cached; each call reads everything again.
type DashboardService struct {
	stores   *store.Stores
	settings config.Dashboard
}

func NewDashboardService(stores *store.Stores, settings config.Dashboard) *DashboardService {
	return &DashboardService{stores: stores, settings: settings}
}

type dashboardData struct {
	projects       []*models.Project
	tasks          []*models.Task
	salesOrders    []*models.SalesOrder
	purchaseOrders []*models.PurchaseOrder
	expenses       []*models.Expense
}

func (s *DashboardService) load(ctx context.Context) (*dashboardData, error) {
	data := &dashboardData{}
	g, ctx := errgroup.WithContext(ctx)
	fetchAll(ctx, g, s.stores.Projects, &data.projects)
	fetchAll(ctx, g, s.stores.Tasks, &data.tasks)
	fetchAll(ctx, g, s.stores.SalesOrders, &data.salesOrders)
	fetchAll(ctx, g, s.stores.PurchaseOrders, &data.purchaseOrders)
	fetchAll(ctx, g, s.stores.Expenses, &data.expenses)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.compute(data), nil
}

func (s *DashboardService) compute(data *dashboardData) *Dashboard {
	return &Dashboard{
		Stats:               s.stats(data),
		TaxVsExpenses:       s.taxVsExpenses(data),
		ProjectProgress:     s.projectProgress(data),
		ResourceUtilization: s.resourceUtilization(data),
		CostVsRevenue:       s.costVsRevenue(data),
	}
}

func (s *DashboardService) stats(data *dashboardData) DashboardStats {
	var done, inProgress int
	for _, task := range data.tasks {
		switch task.Status {
		case models.StatusDone:
			done++
		case models.StatusInProgress:
			inProgress++
		}
	}
	return DashboardStats{
		TotalProjects:  len(data.projects),
		TasksCompleted: done,
		HoursLogged:    s.settings.HoursDone*float64(done) + s.settings.HoursInProgress*float64(inProgress),
	}
}

func (s *DashboardService) taxVsExpenses(data *dashboardData) TaxExpense {
	totalTax := decimal.Zero
	for _, order := range data.salesOrders {
		totalTax = totalTax.Add(sumTaxes(order.OrderLines))
	}
	for _, order := range data.purchaseOrders {
		totalTax = totalTax.Add(sumTaxes(order.OrderLines))
	}

	totalExpenses := decimal.Zero
	if len(data.purchaseOrders) > 0 {
		for _, order := range data.purchaseOrders {
			totalExpenses = totalExpenses.Add(decimal.NewFromFloat(order.Total.Float()))
		}
	} else {
		totalExpenses = decimal.NewFromFloat(s.settings.ExpenseCost).Mul(decimal.NewFromInt(int64(len(data.expenses))))
	}

	result := TaxExpense{
		TotalTax:          totalTax.InexactFloat64(),
		TotalExpenses:     totalExpenses.InexactFloat64(),
		TaxPercentage:     0,
		ExpensePercentage: 100,
	}
	denominator := totalTax.Add(totalExpenses)
	if denominator.IsPositive() {
		result.TaxPercentage = percent(result.TotalTax, denominator.InexactFloat64())
		result.ExpensePercentage = 100 - result.TaxPercentage
	}
	return result
}

func (s *DashboardService) projectProgress(data *dashboardData) []ProjectProgress {
	progress := []ProjectProgress{}
	for _, project := range firstN(data.projects, s.settings.Limit) {
		entry := ProjectProgress{Project: project.Name}
		for _, task := range data.tasks {
			if task.Project != project.Name {
				continue
			}
			entry.TotalTasks++
			if task.Status == models.StatusDone {
				entry.DoneTasks++
			}
		}
		if entry.TotalTasks > 0 {
			entry.Progress = percent(float64(entry.DoneTasks), float64(entry.TotalTasks))
		}
		progress = append(progress, entry)
	}
	return progress
}

func (s *DashboardService) taskHours(status models.TaskStatus) float64 {
	switch status {
	case models.StatusDone:
		return s.settings.HoursDone
	case models.StatusInProgress:
		return s.settings.HoursInProgress
	case models.StatusNew:
		return s.settings.HoursNew
	}
	return 0
}

func (s *DashboardService) resourceUtilization(data *dashboardData) []ResourceUsage {
	hours := make(map[string]float64)
	var order []string
	for _, task := range data.tasks {
		for _, assignee := range task.Assignees {
			assignee = strings.TrimSpace(assignee)
			if assignee == "" {
				continue
			}
			if _, seen := hours[assignee]; !seen {
				order = append(order, assignee)
			}
			hours[assignee] += s.taskHours(task.Status)
		}
	}

	usage := []ResourceUsage{}
	for _, assignee := range firstN(order, s.settings.Limit) {
		usage = append(usage, ResourceUsage{
			Assignee:    assignee,
			Hours:       hours[assignee],
			Capacity:    s.settings.CapacityHours,
			Utilization: percent(hours[assignee], s.settings.CapacityHours),
		})
	}
	return usage
}

func (s *DashboardService) costVsRevenue(data *dashboardData) []CostRevenue {
	result := []CostRevenue{}
	for _, project := range firstN(data.projects, s.settings.Limit) {
		cost := decimal.Zero
		for _, order := range data.purchaseOrders {
			if order.Project == project.Name {
				cost = cost.Add(decimal.NewFromFloat(order.Total.Float()))
			}
		}
		var expenseCount int64
		for _, expense := range data.expenses {
			if expense.Project == project.Name {
				expenseCount++
			}
		}
		cost = cost.Add(decimal.NewFromFloat(s.settings.ExpenseCost).Mul(decimal.NewFromInt(expenseCount)))

		revenue := decimal.Zero
		for _, order := range data.salesOrders {
			if order.Project == project.Name {
				revenue = revenue.Add(decimal.NewFromFloat(order.Total.Float()))
			}
		}
		result = append(result, CostRevenue{
			Project: project.Name,
			Cost:    cost.InexactFloat64(),
			Revenue: revenue.InexactFloat64(),
		})
	}
	return result
}

func sumTaxes(lines []models.OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(decimal.NewFromFloat(line.Taxes.Float()))
	}
	return sum
}

func percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

func firstN[E any](items []E, n int) []E {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
