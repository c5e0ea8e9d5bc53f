package middleware

// Keys under which the auth middleware stores identity on the gin context.
// FormTypeKey is set per route group to the form type the routes serve.
const (
	UserIDKey       = "user_id"
	UserRoleKey     = "user_role"
	DepartmentIDKey = "department_id"
	RequestIDKey    = "request_id"
	FormTypeKey     = "form_type"
)

// Roles carried in the token's role claim.
const (
	RoleAdmin    = "admin"
	RoleStudent  = "student"
	RoleFaculty  = "faculty"
	RoleStaff    = "staff"
	RoleGraduate = "graduate"
)

// RespondentRoles are the roles allowed to fill in feedback forms.
var RespondentRoles = []string{RoleStudent, RoleFaculty, RoleStaff, RoleGraduate}
