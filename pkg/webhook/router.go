package webhook

import (
	"policyai-be/internal/config"
	"policyai-be/internal/rbac"
)

// Router picks the chat webhook for a role. Executive and board endpoints
// are optional deployments; a missing one falls back to the default URL so
// a partially configured environment still answers.
type Router struct {
	defaultURL   string
	executiveURL string
	boardURL     string
}

func NewRouter(cfg config.WebhookConfig) *Router {
	return &Router{
		defaultURL:   cfg.ChatDefaultURL,
		executiveURL: cfg.ChatExecutiveURL,
		boardURL:     cfg.ChatBoardURL,
	}
}

func (r *Router) ChatURL(role rbac.Role) string {
	switch role {
	case rbac.RoleBoard:
		if r.boardURL != "" {
			return r.boardURL
		}
	case rbac.RoleExecutive:
		if r.executiveURL != "" {
			return r.executiveURL
		}
	}
	return r.defaultURL
}
