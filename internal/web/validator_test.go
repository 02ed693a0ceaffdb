package web

import (
	"strings"
	"testing"

	"bbscope/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violations(t *testing.T, err error) []Violation {
	t.Helper()
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr), "expected ValidationError, got %v", err)
	return valErr.Violations
}

func TestValidateTargetCreate(t *testing.T) {
	v := NewValidator()

	notes := "in scope: *.acme.io"
	assert.NoError(t, v.Validate(&models.TargetCreate{ProgramURL: "https://acme.io/security", Notes: &notes}))
	assert.NoError(t, v.Validate(&models.TargetCreate{ProgramURL: strings.Repeat("u", 200)}))

	got := violations(t, v.Validate(&models.TargetCreate{ProgramURL: strings.Repeat("u", 201)}))
	assert.Equal(t, []Violation{{Field: "program_url", Rule: "max", Kind: KindLengthExceeded}}, got)

	long := strings.Repeat("n", 141)
	got = violations(t, v.Validate(&models.TargetCreate{ProgramURL: "https://acme.io", Notes: &long}))
	assert.Equal(t, []Violation{{Field: "notes", Rule: "max", Kind: KindLengthExceeded}}, got)

	got = violations(t, v.Validate(&models.TargetCreate{}))
	assert.Equal(t, []Violation{{Field: "program_url", Rule: "required", Kind: KindRequired}}, got)
}

func TestValidateSubdomain(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.Subdomain{Name: "portal.acme.io", Status: models.StatusActive}))
	assert.NoError(t, v.Validate(&models.Subdomain{Name: "old.acme.io", Status: models.StatusInactive}))

	got := violations(t, v.Validate(&models.Subdomain{Name: "portal.acme.io", Status: "pending"}))
	assert.Equal(t, []Violation{{Field: "status", Rule: "oneof", Kind: KindInvalidEnum}}, got)

	got = violations(t, v.Validate(&models.Subdomain{Status: models.StatusActive}))
	assert.Equal(t, []Violation{{Field: "name", Rule: "required", Kind: KindRequired}}, got)

	got = violations(t, v.Validate(&models.Subdomain{Name: "not a host", Status: models.StatusActive}))
	assert.Equal(t, []Violation{{Field: "name", Rule: "host", Kind: KindInvalid}}, got)

	for _, name := range []string{"_dmarc.acme.io", "dev_api.acme.io", "xn--80ak6aa92e.xn--p1ai", "10.0.0.1"} {
		assert.NoError(t, v.Validate(&models.Subdomain{Name: name, Status: models.StatusActive}), name)
	}
}

func TestValidateDomain(t *testing.T) {
	v := NewValidator()

	for _, domain := range []string{"acme.io", "localhost", "10.0.0.1", "xn--80ak6aa92e.xn--p1ai"} {
		assert.NoError(t, v.Domain(domain), domain)
	}

	got := violations(t, v.Domain(""))
	assert.Equal(t, []Violation{{Field: "domain", Rule: "required", Kind: KindRequired}}, got)

	got = violations(t, v.Domain("bad domain"))
	assert.Equal(t, "host", got[0].Rule)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []Violation{
		{Field: "status", Rule: "oneof"},
		{Field: "name", Rule: "required"},
	}}
	assert.Equal(t, "validation failed on status (oneof), name (required)", err.Error())
}
