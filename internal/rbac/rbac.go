package rbac

import (
	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Role values mirror the directory's role classification column.
const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleHR       = "HR"
)

type Service interface {
	Authorize(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

// NewService builds an in-memory enforcer with the static role policy:
// every authenticated role may read its own data; Manager additionally
// sees and decides all requests; HR inherits Manager and may export.
func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleEmployee, "leave_request", "create"},
		{RoleEmployee, "leave_request", "read_own"},
		{RoleEmployee, "leave_balance", "read"},
		{RoleEmployee, "profile", "read"},
		{RoleManager, "leave_request", "read_all"},
		{RoleManager, "leave_request", "decide"},
		{RoleHR, "leave_request", "export"},
		{RoleHR, "directory", "inspect"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	groupings := [][]string{
		{RoleManager, RoleEmployee},
		{RoleHR, RoleManager},
	}
	if _, err := e.AddGroupingPolicies(groupings); err != nil {
		return nil, err
	}

	return &service{enforcer: e}, nil
}

func (s *service) Authorize(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}
