package models

import "strings"

type Role string

const (
	RoleUser           Role = "user"
	RoleTeamMember     Role = "team_member"
	RoleSalesFinance   Role = "sales_finance"
	RoleProjectManager Role = "project_manager"
	RoleAdmin          Role = "admin"
)

var Roles = []Role{RoleUser, RoleTeamMember, RoleSalesFinance, RoleProjectManager, RoleAdmin}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Capability names a single boolean permission checked per route.
type Capability string

const (
	CanCreateProjects       Capability = "canCreateProjects"
	CanEditProjects         Capability = "canEditProjects"
	CanDeleteProjects       Capability = "canDeleteProjects"
	CanManageTasks          Capability = "canManageTasks"
	CanViewAllTasks         Capability = "canViewAllTasks"
	CanCreateSalesOrders    Capability = "canCreateSalesOrders"
	CanCreatePurchaseOrders Capability = "canCreatePurchaseOrders"
	CanCreateInvoices       Capability = "canCreateInvoices"
	CanCreateVendorBills    Capability = "canCreateVendorBills"
	CanManageExpenses       Capability = "canManageExpenses"
	CanViewDashboard        Capability = "canViewDashboard"
	CanAccessAdmin          Capability = "canAccessAdmin"
)

var Capabilities = []Capability{
	CanCreateProjects,
	CanEditProjects,
	CanDeleteProjects,
	CanManageTasks,
	CanViewAllTasks,
	CanCreateSalesOrders,
	CanCreatePurchaseOrders,
	CanCreateInvoices,
	CanCreateVendorBills,
	CanManageExpenses,
	CanViewDashboard,
	CanAccessAdmin,
}

type Permissions struct {
	CanCreateProjects       bool `json:"canCreateProjects" bson:"canCreateProjects"`
	CanEditProjects         bool `json:"canEditProjects" bson:"canEditProjects"`
	CanDeleteProjects       bool `json:"canDeleteProjects" bson:"canDeleteProjects"`
	CanManageTasks          bool `json:"canManageTasks" bson:"canManageTasks"`
	CanViewAllTasks         bool `json:"canViewAllTasks" bson:"canViewAllTasks"`
	CanCreateSalesOrders    bool `json:"canCreateSalesOrders" bson:"canCreateSalesOrders"`
	CanCreatePurchaseOrders bool `json:"canCreatePurchaseOrders" bson:"canCreatePurchaseOrders"`
	CanCreateInvoices       bool `json:"canCreateInvoices" bson:"canCreateInvoices"`
	CanCreateVendorBills    bool `json:"canCreateVendorBills" bson:"canCreateVendorBills"`
	CanManageExpenses       bool `json:"canManageExpenses" bson:"canManageExpenses"`
	CanViewDashboard        bool `json:"canViewDashboard" bson:"canViewDashboard"`
	CanAccessAdmin          bool `json:"canAccessAdmin" bson:"canAccessAdmin"`
}

func (p *Permissions) field(c Capability) *bool {
	switch c {
	case CanCreateProjects:
		return &p.CanCreateProjects
	case CanEditProjects:
		return &p.CanEditProjects
	case CanDeleteProjects:
		return &p.CanDeleteProjects
	case CanManageTasks:
		return &p.CanManageTasks
	case CanViewAllTasks:
		return &p.CanViewAllTasks
	case CanCreateSalesOrders:
		return &p.CanCreateSalesOrders
	case CanCreatePurchaseOrders:
		return &p.CanCreatePurchaseOrders
	case CanCreateInvoices:
		return &p.CanCreateInvoices
	case CanCreateVendorBills:
		return &p.CanCreateVendorBills
	case CanManageExpenses:
		return &p.CanManageExpenses
	case CanViewDashboard:
		return &p.CanViewDashboard
	case CanAccessAdmin:
		return &p.CanAccessAdmin
	}
	return nil
}

// Has reports whether the capability is granted. Unknown names are never granted.
func (p Permissions) Has(c Capability) bool {
	f := p.field(c)
	return f != nil && *f
}

// Set grants or revokes a capability and reports whether the name is known.
func (p *Permissions) Set(c Capability, granted bool) bool {
	f := p.field(c)
	if f == nil {
		return false
	}
	*f = granted
	return true
}

// Of builds a permission set granting exactly the given capabilities.
func Of(caps ...Capability) Permissions {
	var p Permissions
	for _, c := range caps {
		p.Set(c, true)
	}
	return p
}

type User struct {
	Base        `bson:",inline"`
	ClerkUserID string      `json:"clerkUserId" bson:"clerkUserId"`
	Email       string      `json:"email" bson:"email"`
	Role        Role        `json:"role" bson:"role"`
	Permissions Permissions `json:"permissions" bson:"permissions"`
}

func (u *User) ApplyDefaults() {
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
}

func (u *User) Validate() error {
	if err := required("email", u.Email); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return &ValidationError{Field: "role", Message: "role must be one of user, team_member, sales_finance, project_manager, admin"}
	}
	return nil
}
