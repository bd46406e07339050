package mail

import (
	"bytes"
	"html/template"

	_ "embed"
)

//go:embed templates/reset_password.html
var resetPasswordHTML string

//go:embed templates/contact.html
var contactHTML string

var (
	resetPasswordTmpl = template.Must(template.New("reset_password").Parse(resetPasswordHTML))
	contactTmpl       = template.Must(template.New("contact").Parse(contactHTML))
)

func RenderResetPassword(name, password string) (string, error) {
	var buf bytes.Buffer
	err := resetPasswordTmpl.Execute(&buf, map[string]interface{}{
		"Name":     name,
		"Password": password,
	})
	return buf.String(), err
}

// RenderContact renders the contact mail. Details is operator-bound HTML
// from the request body and is inserted as-is.
func RenderContact(name, details string) (string, error) {
	var buf bytes.Buffer
	err := contactTmpl.Execute(&buf, map[string]interface{}{
		"Name":    name,
		"Details": template.HTML(details),
	})
	return buf.String(), err
}
