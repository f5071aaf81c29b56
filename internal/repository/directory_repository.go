package repository

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/granohq/accessd/internal/entity"
)

// DirectoryRepository reads the authorization graph of one subject out of
// postgres. One batched query per Load: no per-role or per-permission round
// trips during a decision.
type DirectoryRepository struct {
	db *pgxpool.Pool
}

func NewDirectoryRepository(db *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// Load returns the full graph for the subject, or entity.ErrUserNotFound if
// the subject does not exist (or is deleted). Any other failure wraps
// entity.ErrDirectoryUnavailable.
func (r *DirectoryRepository) Load(ctx context.Context, subjectID uuid.UUID) (entity.UserGraph, error) {
	q := `
	SELECT u.is_super_admin, r.name, r.level, m.name, p.action
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
	LEFT JOIN modules m ON m.id = p.module_id
	WHERE u.id = $1 AND u.status <> $2
	ORDER BY r.name`

	rows, err := r.db.Query(ctx, q, subjectID, entity.StatusDeleted)
	if err != nil {
		return entity.UserGraph{}, fmt.Errorf("%w: query user graph: %w", entity.ErrDirectoryUnavailable, err)
	}
	defer rows.Close()

	graph := entity.UserGraph{SubjectID: subjectID}
	found := false
	roleIndex := make(map[string]int)

	for rows.Next() {
		var (
			isSuperAdmin bool
			roleName     *string
			roleLevel    *int
			moduleName   *string
			action       *string
		)

		if err := rows.Scan(&isSuperAdmin, &roleName, &roleLevel, &moduleName, &action); err != nil {
			return entity.UserGraph{}, fmt.Errorf("%w: scan user graph: %w", entity.ErrDirectoryUnavailable, err)
		}

		found = true
		graph.IsSuperAdmin = isSuperAdmin

		if roleName == nil {
			continue
		}

		idx, ok := roleIndex[*roleName]
		if !ok {
			role := entity.GraphRole{Name: *roleName}
			if roleLevel != nil {
				role.Level = *roleLevel
			}

			graph.Roles = append(graph.Roles, role)
			idx = len(graph.Roles) - 1
			roleIndex[*roleName] = idx
		}

		if action == nil {
			continue
		}

		perm := entity.GraphPermission{Action: entity.Action(*action)}
		if moduleName != nil {
			perm.Module = *moduleName
		}

		graph.Roles[idx].Permissions = append(graph.Roles[idx].Permissions, perm)
	}

	if err := rows.Err(); err != nil {
		return entity.UserGraph{}, fmt.Errorf("%w: read user graph: %w", entity.ErrDirectoryUnavailable, err)
	}

	if !found {
		return entity.UserGraph{}, entity.ErrUserNotFound
	}

	return graph, nil
}
