package service

import (
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// Exact match on role, resource and action: no role hierarchy, no wildcards.
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Policy is one allowed (role, resource, action) triple.
type Policy struct {
	Role     domain.Role
	Resource domain.ResourceKind
	Action   domain.Action
}

// DefaultPolicies is the clinic's permission table.
var DefaultPolicies = []Policy{
	{domain.RoleOptometrist, domain.ResourceExamination, domain.ActionCreate},
	{domain.RoleOptometrist, domain.ResourceDoctorDirectory, domain.ActionList},
	{domain.RoleDoctor, domain.ResourceExamination, domain.ActionConsult},
	{domain.RoleDoctor, domain.ResourceExamination, domain.ActionListAssigned},
	{domain.RoleDoctor, domain.ResourceDoctorDirectory, domain.ActionList},
	{domain.RolePatient, domain.ResourceExamination, domain.ActionListOwn},
	{domain.RolePatient, domain.ResourceDoctorDirectory, domain.ActionList},
}

// AccessGate combines the role policy table with the identity and activity
// checks that the table cannot express.
type AccessGate struct {
	enforcer *casbin.SyncedEnforcer
	logger   zerolog.Logger
}

func NewAccessGate(policies []Policy, logger zerolog.Logger) (*AccessGate, error) {
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, fmt.Errorf("access gate: model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("access gate: enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(string(p.Role), string(p.Resource), string(p.Action)); err != nil {
			return nil, fmt.Errorf("access gate: add policy %v: %w", p, err)
		}
	}
	return &AccessGate{enforcer: e, logger: logger}, nil
}

// CanAccess requires an active actor whose role is allowed the action on the
// resource kind. Consulting an examination additionally requires the actor to
// be its consultant.
func (g *AccessGate) CanAccess(actor *domain.Actor, res domain.Resource, action domain.Action) bool {
	if actor == nil || !actor.IsActive {
		return false
	}

	allowed, err := g.enforcer.Enforce(string(actor.Role), string(res.Kind), string(action))
	if err != nil {
		g.logger.Error().Err(err).Str("role", string(actor.Role)).Str("resource", string(res.Kind)).Msg("policy evaluation failed")
		return false
	}
	if !allowed {
		return false
	}

	if res.Kind == domain.ResourceExamination && action == domain.ActionConsult {
		return res.Consultant != nil && domain.ActorID(*res.Consultant) == actor.ID
	}
	return true
}
