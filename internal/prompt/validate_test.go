package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoinvoice/internal/prompt"
)

func TestClientName(t *testing.T) {
	assert.NoError(t, prompt.ClientName("acme"))
	assert.NoError(t, prompt.ClientName("Acme42"))

	assert.Error(t, prompt.ClientName(""))
	assert.Error(t, prompt.ClientName("acme corp"))
	assert.Error(t, prompt.ClientName("acme.corp"))
	assert.Error(t, prompt.ClientName("acmé"))
}

func TestDate(t *testing.T) {
	assert.NoError(t, prompt.Date("10/21/2017"))
	assert.NoError(t, prompt.Date("01/02/2024"))

	assert.Error(t, prompt.Date(""))
	assert.Error(t, prompt.Date("2017-10-21"))
	assert.Error(t, prompt.Date("13/45/2017"))
}

func TestNumber(t *testing.T) {
	assert.NoError(t, prompt.Number("30"))
	assert.NoError(t, prompt.Number("0"))

	assert.Error(t, prompt.Number(""))
	assert.Error(t, prompt.Number("-1"))
	assert.Error(t, prompt.Number("3.5"))
	assert.Error(t, prompt.Number("thirty"))
}

func TestEmailList(t *testing.T) {
	assert.NoError(t, prompt.EmailList("a@b.test"))
	assert.NoError(t, prompt.EmailList("a@b.test,c@d.test"))
	assert.NoError(t, prompt.EmailList("a@b.test, c@d.test"))

	assert.Error(t, prompt.EmailList(""))
	assert.Error(t, prompt.EmailList("not-an-address"))
	assert.Error(t, prompt.EmailList("a@b.test,oops"))
	assert.Error(t, prompt.EmailList("a@b.test,"))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, prompt.Email("a@b.test"))
	assert.Error(t, prompt.Email("a@b.test,c@d.test"))
	assert.Error(t, prompt.Email("nope"))
}

func TestValidationErrorMessage(t *testing.T) {
	err := prompt.Date("nope")
	var vErr *prompt.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expected a date like 10/21/2017", vErr.Message)
}
