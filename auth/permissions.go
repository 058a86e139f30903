package auth

import "erp-project/backend/models"

var roleCapabilities = map[models.Role][]models.Capability{
	models.RoleUser: {
		models.CanViewDashboard,
	},
	models.RoleTeamMember: {
		models.CanManageTasks,
		models.CanViewAllTasks,
		models.CanManageExpenses,
		models.CanViewDashboard,
	},
	models.RoleSalesFinance: {
		models.CanCreateSalesOrders,
		models.CanCreatePurchaseOrders,
		models.CanCreateInvoices,
		models.CanCreateVendorBills,
		models.CanManageExpenses,
		models.CanViewDashboard,
	},
	models.RoleProjectManager: {
		models.CanCreateProjects,
		models.CanEditProjects,
		models.CanDeleteProjects,
		models.CanManageTasks,
		models.CanViewAllTasks,
		models.CanManageExpenses,
		models.CanViewDashboard,
	},
	models.RoleAdmin: models.Capabilities,
}

// DefaultPermissions returns the permission set a role starts with. Unknown
// roles get nothing.
func DefaultPermissions(role models.Role) models.Permissions {
	return models.Of(roleCapabilities[role]...)
}

// ParseCapability maps a capability name to the fixed enumeration.
func ParseCapability(name string) (models.Capability, bool) {
	for _, c := range models.Capabilities {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
