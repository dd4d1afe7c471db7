package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

func TestParsePagingValue(t *testing.T) {
	v, err := parsePagingValue("limit", "", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, v)

	v, err = parsePagingValue("offset", "25", 0)
	require.NoError(t, err)
	assert.Equal(t, 25, v)
}

func TestParsePagingValueRejectsMalformedInput(t *testing.T) {
	_, err := parsePagingValue("limit", "abc", 50)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}
