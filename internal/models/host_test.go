package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "api.acme.io", NormalizeHost("api.acme.io."))
	assert.Equal(t, "api.acme.io", NormalizeHost(" API.Acme.IO "))
	assert.Equal(t, "", NormalizeHost("."))
}

func TestValidHost(t *testing.T) {
	valid := []string{
		"acme.io",
		"portal.acme.io",
		"_dmarc.acme.io",
		"dev_api.acme.io",
		"xn--80ak6aa92e.xn--p1ai",
		"пример.рф",
		"localhost",
		"10.0.0.1",
		"a-b.c-d.io",
	}
	for _, host := range valid {
		assert.True(t, ValidHost(host), host)
	}

	invalid := []string{
		"",
		"not a host",
		"a..b",
		".acme.io",
		"acme.io/path",
		"https://acme.io",
		strings.Repeat("a", 64) + ".io",
		strings.Repeat("a.", 127) + "io",
	}
	for _, host := range invalid {
		assert.False(t, ValidHost(host), host)
	}
}
