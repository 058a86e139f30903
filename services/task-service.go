package services

import (
	"strings"

	"erp-project/backend/auth"
	"erp-project/backend/models"
)

// TaskVisible reports whether the caller may read the task. Callers without
// canViewAllTasks only see tasks that list their email among the assignees.
func TaskVisible(identity *auth.Identity, task *models.Task) bool {
	if identity == nil {
		return false
	}
	if identity.Can(models.CanViewAllTasks) {
		return true
	}
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return false
	}
	for _, assignee := range task.Assignees {
		if strings.EqualFold(strings.TrimSpace(assignee), email) {
			return true
		}
	}
	return false
}
