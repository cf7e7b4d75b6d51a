package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "operations",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/redemption-options", Action: "*"},
				{Object: "/admin/redemption-options/:id", Action: "*"},
				{Object: "/admin/redemption-options/:id/stock", Action: "*"},
				{Object: "/admin/partners", Action: "*"},
				{Object: "/admin/partners/:id", Action: "*"},
				{Object: "/admin/companies", Action: "*"},
				{Object: "/admin/companies/:id", Action: "*"},
				{Object: "/admin/vehicles", Action: "*"},
				{Object: "/admin/vehicles/:id", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "dispatcher",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/pickups", Action: "GET"},
				{Object: "/admin/pickups/:id", Action: "GET"},
				{Object: "/admin/pickups/:id/assign", Action: "POST"},
				{Object: "/admin/pickups/:id/collect", Action: "POST"},
				{Object: "/admin/pickups/:id/complete", Action: "POST"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
				{Object: "/admin/user-login-logs", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "points_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/point-transactions", Action: "GET"},
				{Object: "/admin/point-transactions", Action: "POST"},
				{Object: "/admin/point-transactions/:id", Action: "GET"},
				{Object: "/admin/point-transactions/:id/confirm", Action: "POST"},
				{Object: "/admin/point-transactions/:id/cancel", Action: "POST"},
				{Object: "/admin/users/:id/reconcile", Action: "POST"},
				{Object: "/admin/redemptions", Action: "GET"},
				{Object: "/admin/redemptions/:id", Action: "GET"},
				{Object: "/admin/redemptions/:id/fulfill", Action: "POST"},
				{Object: "/admin/redemptions/:id/cancel", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
