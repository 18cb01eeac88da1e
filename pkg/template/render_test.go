package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderInterpolatesFields(t *testing.T) {
	out, err := Render("otp_login", "Your OTP for {{.Purpose}} is {{.OTP}}.", map[string]string{
		"OTP":     "482913",
		"Purpose": "Login",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Your OTP for Login is 482913.", out)
}

func TestRenderMissingFieldsAreEmptyNotErrors(t *testing.T) {
	out, err := Render("greeting", "Hello {{.Name}}, your code is {{.OTP}}", map[string]string{
		"OTP": "482913",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Hello , your code is 482913", out)
}

func TestRenderNilFields(t *testing.T) {
	out, err := Render("plain", "No placeholders here.", nil)
	assert.NoError(t, err)
	assert.Equal(t, "No placeholders here.", out)
}

func TestRenderBadTemplateFails(t *testing.T) {
	_, err := Render("broken", "Hello {{.Name", nil)
	assert.Error(t, err)
}
