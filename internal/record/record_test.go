package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetNested(t *testing.T) {
	r := Record{}
	r.Set("employer.email", "hr@acme.test")
	r.Set("title", "Backend Engineer")

	v, ok := r.Get("employer.email")
	require.True(t, ok)
	assert.Equal(t, "hr@acme.test", v)
	assert.Equal(t, "Backend Engineer", r.String("title"))
}

func TestGetMissingAndNil(t *testing.T) {
	r := Record{"profile": nil, "name": "x"}

	_, ok := r.Get("profile.headline")
	assert.False(t, ok)
	_, ok = r.Get("name.first")
	assert.False(t, ok)
	_, ok = Record(nil).Get("name")
	assert.False(t, ok)
}

func TestGetThroughNestedRecord(t *testing.T) {
	r := Record{"job": Record{"title": "Designer"}}
	assert.Equal(t, "Designer", r.String("job.title"))
}
