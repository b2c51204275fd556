package domain

const (
	RoleViewer      = "viewer"
	RoleTecnico     = "tecnico"
	RoleCoordinador = "coordinador"
	RoleAdmin       = "admin"
)

// roleHierarchy orders roles by privilege; a higher level implies every
// capability of the levels below. Unknown roles map to 0 and are always
// denied.
var roleHierarchy = map[string]int{
	RoleViewer:      1,
	RoleTecnico:     2,
	RoleCoordinador: 3,
	RoleAdmin:       4,
}

// RoleLevel returns the privilege level for a role, 0 if unknown.
func RoleLevel(role string) int {
	return roleHierarchy[role]
}

// ValidRole reports whether role is a member of the closed role set.
func ValidRole(role string) bool {
	_, ok := roleHierarchy[role]
	return ok
}

// HasPermission reports whether userRole meets or exceeds requiredRole in
// the hierarchy. An unknown user role never passes.
func HasPermission(userRole, requiredRole string) bool {
	userLevel := roleHierarchy[userRole]
	if userLevel == 0 {
		return false
	}
	return userLevel >= roleHierarchy[requiredRole]
}

// CanEditAnyRecord reports whether the role may edit records it does not own.
func CanEditAnyRecord(role string) bool {
	return role == RoleAdmin || role == RoleCoordinador
}

// CanDeleteRecords reports whether the role may hard-delete records.
func CanDeleteRecords(role string) bool {
	return role == RoleAdmin
}

// CanManageUsers reports whether the role may provision or modify accounts.
func CanManageUsers(role string) bool {
	return role == RoleAdmin
}

// CanGenerateReports reports whether the role may run reporting queries.
func CanGenerateReports(role string) bool {
	return role == RoleAdmin || role == RoleCoordinador
}
