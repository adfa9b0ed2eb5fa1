package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]string{"a", "b"}, 12, 2, 4)

	assert.Equal(t, []string{"a", "b"}, resp.Items)
	assert.Equal(t, PaginationResponse{Total: 12, Limit: 2, Offset: 4}, resp.Pagination)
}
