package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin     = "ADMIN"
	RoleManager   = "MANAGER"
	RoleCashier   = "CASHIER"
	RoleWarehouse = "WAREHOUSE"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Everything except user management and restores",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Sales, orders and customer-facing operations",
	},
	{
		Code:        RoleWarehouse,
		Name:        "Warehouse employee",
		Description: "Product and stock operations",
	},
}

// CashierPrivileges are the codes granted to the CASHIER role by default.
var CashierPrivileges = []string{
	"product:view", "sale:view", "sale:create",
	"order:view", "order:create", "order:update",
	"warranty:view", "warranty:create", "warranty:claim",
}

// WarehousePrivileges are the codes granted to the WAREHOUSE role.
var WarehousePrivileges = []string{
	"product:view", "product:create", "product:update",
	"order:view", "order:update",
}
