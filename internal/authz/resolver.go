package authz

import (
	"context"
	"log/slog"

	"github.com/granohq/accessd/internal/entity"
)

// Resolve reduces a user graph to the two sets a decision queries: role names
// held, and every (module, action) pair reachable through any held role. The
// permission set is a union across all roles, not scoped to the role that
// satisfies the role gate.
//
// A permission whose module did not resolve is skipped, not fatal: a
// partially populated graph degrades permissions, never availability.
func Resolve(ctx context.Context, graph entity.UserGraph) entity.AccessSet {
	set := entity.AccessSet{
		Roles:       make(map[string]struct{}, len(graph.Roles)),
		Permissions: make(map[entity.PermissionKey]struct{}),
	}

	for _, role := range graph.Roles {
		if role.Name == "" {
			continue
		}

		set.Roles[role.Name] = struct{}{}

		for _, perm := range role.Permissions {
			if perm.Module == "" {
				slog.WarnContext(ctx, "skipping permission with unresolved module",
					"role", role.Name,
					"action", perm.Action,
				)

				continue
			}

			set.Permissions[entity.PermissionKey{Module: perm.Module, Action: perm.Action}] = struct{}{}
		}
	}

	return set
}
