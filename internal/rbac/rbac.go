package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/akashvinod-2003/empmanage/internal/domain"
)

//go:generate mockgen -source=rbac.go -destination=mock/rbac_mock.go -package=mock
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// modelText wires the role hierarchy through casbin grouping policies:
// HR inherits MANAGER, MANAGER inherits EMPLOYEE.
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

type enforcer struct {
	casbin *casbin.Enforcer
}

func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	groupings := [][]string{
		{string(domain.RoleHR), string(domain.RoleManager)},
		{string(domain.RoleManager), string(domain.RoleEmployee)},
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	policies := [][]string{
		// every authenticated employee
		{string(domain.RoleEmployee), "attendance", "record"},
		{string(domain.RoleEmployee), "attendance", "read"},
		{string(domain.RoleEmployee), "leave", "submit"},
		{string(domain.RoleEmployee), "leave", "read"},
		{string(domain.RoleEmployee), "task", "read"},
		{string(domain.RoleEmployee), "task", "advance"},
		{string(domain.RoleEmployee), "salary", "read"},
		{string(domain.RoleEmployee), "performance", "read"},
		{string(domain.RoleEmployee), "employee", "read"},

		// manager and above
		{string(domain.RoleManager), "attendance", "review"},
		{string(domain.RoleManager), "leave", "decide"},
		{string(domain.RoleManager), "task", "assign"},
		{string(domain.RoleManager), "performance", "rate"},

		// HR only
		{string(domain.RoleHR), "leave", "revoke"},
		{string(domain.RoleHR), "salary", "manage"},
		{string(domain.RoleHR), "report", "read"},
		{string(domain.RoleHR), "employee", "manage"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &enforcer{casbin: e}, nil
}

func (e *enforcer) Enforce(role, resource, action string) (bool, error) {
	return e.casbin.Enforce(role, resource, action)
}
