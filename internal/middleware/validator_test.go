package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	ok := []string{
		"https://www.reuters.com/world/some-story",
		"http://example.org/a?b=c",
		"https://8.8.8.8/x",
	}
	for _, u := range ok {
		assert.NoError(t, ValidateURL(u), u)
	}

	bad := []string{
		"",
		"ftp://example.org/file",
		"javascript:alert(1)",
		"https://localhost/admin",
		"http://127.0.0.1:8080/",
		"http://[::1]/",
		"http://0.0.0.0/",
		"http://10.1.2.3/",
		"http://192.168.1.10/",
		"http://172.20.0.1/",
		"http://169.254.169.254/latest/meta-data",
		"https:///nohost",
	}
	for _, u := range bad {
		assert.Error(t, ValidateURL(u), u)
	}
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("acme_news-1"))
	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("bad tenant"))
	assert.Error(t, ValidateTenantID("../etc"))
}

func TestValidateRecordID(t *testing.T) {
	assert.NoError(t, ValidateRecordID(uuid.NewString()))
	assert.Error(t, ValidateRecordID(""))
	assert.Error(t, ValidateRecordID("1234"))
}
