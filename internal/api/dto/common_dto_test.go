package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.EqualValues(t, 25, p.Total)
	assert.Equal(t, 3, p.Pages)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.Pages)

	defaulted := NewPagination(0, 0, 5)
	assert.Equal(t, 1, defaulted.Page)
	assert.Equal(t, 10, defaulted.Limit)
	assert.Equal(t, 1, defaulted.Pages)
}
