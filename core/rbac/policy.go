package rbac

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const rbacModel = `
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

// Built-in role policy. Role values are free text in the users table;
// anything outside these three simply matches no policy rows.
var defaultPolicy = [][]string{
	{"general", "incidents", "view"},
	{"general", "datasets", "view"},
	{"general", "tickets", "view"},
	{"general", "assistant", "use"},
	{"analyst", "incidents", "manage"},
	{"analyst", "datasets", "manage"},
	{"analyst", "tickets", "manage"},
	{"admin", "users", "view"},
	{"admin", "logs", "view"},
	{"admin", "import", "manage"},
}

// Role inheritance: admin covers analyst, analyst covers general.
var defaultGrouping = [][]string{
	{"analyst", "general"},
	{"admin", "analyst"},
}

type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range defaultPolicy {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range defaultGrouping {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	return &Policy{enforcer: e}, nil
}

// Allowed checks a permission of the form "resource.action" against a role.
func (p *Policy) Allowed(role string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	obj, act, found := strings.Cut(string(perm), ".")
	if !found {
		return false
	}
	ok, err := p.enforcer.Enforce(strings.ToLower(strings.TrimSpace(role)), obj, act)
	return err == nil && ok
}
