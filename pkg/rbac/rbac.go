package rbac

import "fmt"

// 权限常量
const (
	// 敏感操作权限
	PermissionDeleteDonor   = "donor:delete"
	PermissionDeleteRequest = "request:delete"
	PermissionClearDonors   = "donor:clear"
	PermissionClearRequests = "request:clear"
	PermissionExport        = "collection:export"
	PermissionReadDashboard = "dashboard:read"

	// 普通操作权限
	PermissionContactDonor = "donor:contact"
	PermissionViewRequest  = "request:read"
)

// 角色常量
const (
	RoleVisitor = "visitor"
	RoleAdmin   = "admin"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleVisitor: {
		PermissionContactDonor,
		PermissionViewRequest,
	},
	RoleAdmin: {
		PermissionContactDonor,
		PermissionViewRequest,
		PermissionDeleteDonor,
		PermissionDeleteRequest,
		PermissionClearDonors,
		PermissionClearRequests,
		PermissionExport,
		PermissionReadDashboard,
	},
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查角色是否有指定权限（返回错误而不是布尔值，便于处理）
func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %s lacks permission %s", e.Role, e.Permission)
}
