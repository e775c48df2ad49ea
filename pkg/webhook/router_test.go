package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"policyai-be/internal/config"
	"policyai-be/internal/rbac"
)

func TestChatURLSelectsByRole(t *testing.T) {
	r := NewRouter(config.WebhookConfig{
		ChatDefaultURL:   "https://wf.example.com/chat",
		ChatExecutiveURL: "https://wf.example.com/chat-executive",
		ChatBoardURL:     "https://wf.example.com/chat-board",
	})

	assert.Equal(t, "https://wf.example.com/chat-board", r.ChatURL(rbac.RoleBoard))
	assert.Equal(t, "https://wf.example.com/chat-executive", r.ChatURL(rbac.RoleExecutive))
	assert.Equal(t, "https://wf.example.com/chat", r.ChatURL(rbac.RoleAdministrator))
}

func TestChatURLFallsBackToDefault(t *testing.T) {
	r := NewRouter(config.WebhookConfig{
		ChatDefaultURL: "https://wf.example.com/chat",
	})

	assert.Equal(t, "https://wf.example.com/chat", r.ChatURL(rbac.RoleBoard))
	assert.Equal(t, "https://wf.example.com/chat", r.ChatURL(rbac.RoleExecutive))
	assert.Equal(t, "https://wf.example.com/chat", r.ChatURL(rbac.RoleAdministrator))
	assert.Equal(t, "https://wf.example.com/chat", r.ChatURL(rbac.RoleNone))
}
