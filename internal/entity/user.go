package entity

type User struct {
	Base
	Name    string `gorm:"unique"`
	Role    string `gorm:"default:USER"`
	Balance float64
}

const (
	SuperAdminRole = "SUPER_ADMIN"
	AdminRole      = "ADMIN"
	UserRole       = "USER"
)

var GlobalAdminRoles = []string{SuperAdminRole, AdminRole}
