package safety_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidymail/tidymail/internal/safety"
)

func TestIsSenderWhitelistedExactMatch(t *testing.T) {
	c := safety.NewChecker([]string{"Boss@Company.com"}, nil, nil, nil)

	assert.True(t, c.IsSenderWhitelisted("boss@company.com"))
	assert.True(t, c.IsSenderWhitelisted("  BOSS@COMPANY.COM  "))
	assert.False(t, c.IsSenderWhitelisted("intern@company.com"))
}

func TestIsSenderWhitelistedDomain(t *testing.T) {
	c := safety.NewChecker(nil, []string{"company.com"}, nil, nil)

	assert.True(t, c.IsSenderWhitelisted("anyone@company.com"))
	assert.True(t, c.IsSenderWhitelisted("alerts@mail.company.com"))
	// Suffix match requires a dot boundary
	assert.False(t, c.IsSenderWhitelisted("evil@notcompany.com"))
	assert.False(t, c.IsSenderWhitelisted("anyone@other.com"))
}

func TestIsSenderWhitelistedMalformedAddress(t *testing.T) {
	c := safety.NewChecker(nil, []string{"company.com"}, nil, nil)

	assert.False(t, c.IsSenderWhitelisted("company.com"))
	assert.False(t, c.IsSenderWhitelisted(""))
	assert.False(t, c.IsSenderWhitelisted("   "))
}

func TestIsSenderWhitelistedEmptyLists(t *testing.T) {
	c := safety.NewChecker(nil, nil, nil, nil)

	assert.False(t, c.IsSenderWhitelisted("anyone@anywhere.com"))
}

func TestIsProtected(t *testing.T) {
	c := safety.NewChecker(nil, nil, []string{"STARRED", "important"}, nil)

	assert.True(t, c.IsProtected([]string{"INBOX", "STARRED"}))
	assert.True(t, c.IsProtected([]string{"starred"}))
	assert.True(t, c.IsProtected([]string{"IMPORTANT"}))
	assert.False(t, c.IsProtected([]string{"INBOX", "UNREAD"}))
	assert.False(t, c.IsProtected(nil))
}
