package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	{Code: "sale:delete", Name: "Delete Sale"},
	// Expenses
	{Code: "expense:view", Name: "View Expense"},
	{Code: "expense:create", Name: "Create Expense"},
	{Code: "expense:update", Name: "Update Expense"},
	{Code: "expense:delete", Name: "Delete Expense"},
	// Orders
	{Code: "order:view", Name: "View Order"},
	{Code: "order:create", Name: "Create Order"},
	{Code: "order:update", Name: "Update Order Status"},
	{Code: "order:delete", Name: "Delete Order"},
	// Warranties
	{Code: "warranty:view", Name: "View Warranty"},
	{Code: "warranty:create", Name: "Create Warranty"},
	{Code: "warranty:update", Name: "Update Warranty"},
	{Code: "warranty:claim", Name: "File Warranty Claim"},
	// Debt ledger
	{Code: "debt:view", Name: "View Debt"},
	{Code: "debt:create", Name: "Create Debt"},
	{Code: "debt:pay", Name: "Record Debt Payment"},
	// Backups
	{Code: "backup:create", Name: "Create Backup"},
	{Code: "backup:restore", Name: "Restore Backup"},
	// Reports
	{Code: "report:view", Name: "View Reports"},
}
