package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deskhub/helpdesk/internal/domain"
)

func TestClientFromDomain(t *testing.T) {
	phone := "+1-555-0100"
	now := time.Now()

	resp := ClientFromDomain(&domain.Client{
		ID:           "client-1",
		Name:         "Acme Corp",
		ContactEmail: "ops@acme.test",
		ContactPhone: &phone,
		CreatedAt:    now,
	})

	assert.Equal(t, "client-1", resp.ID)
	assert.Equal(t, "Acme Corp", resp.Name)
	assert.Equal(t, "ops@acme.test", resp.ContactEmail)
	assert.Equal(t, &phone, resp.ContactPhone)
	assert.Equal(t, now, resp.CreatedAt)
}
