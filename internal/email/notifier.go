package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/dropDatabas3/socialgate/internal/store/core"
)

// Notifier arma y envía el correo de bienvenida tras un alta social.
type Notifier struct {
	sender  Sender
	baseURL string // para armar el link de reset
}

func NewNotifier(sender Sender, baseURL string) *Notifier {
	return &Notifier{sender: sender, baseURL: strings.TrimRight(baseURL, "/")}
}

const welcomeHTML = `<p>Hola {{.FirstName}} {{.LastName}},</p>
<p>Tu cuenta fue creada con el email <b>{{.Email}}</b>. Ya podés iniciar
sesión con tu cuenta social o con tu password.</p>`

const welcomeNoPasswordHTML = `<p>Hola {{.FirstName}} {{.LastName}},</p>
<p>Tu cuenta fue creada con el email <b>{{.Email}}</b>. Todavía no tiene
password propio: podés definir uno desde este link (vence pronto):</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
<p>Mientras tanto podés seguir entrando con tu cuenta social.</p>`

var (
	tplWelcome           = template.Must(template.New("welcome").Parse(welcomeHTML))
	tplWelcomeNoPassword = template.Must(template.New("welcome_np").Parse(welcomeNoPasswordHTML))
)

type welcomeVars struct {
	FirstName string
	LastName  string
	Email     string
	ResetURL  string
}

// SendWelcome implementa linker.Notifier.
func (n *Notifier) SendWelcome(_ context.Context, acct *core.Account, variant core.NotificationVariant, resetToken string) error {
	vars := welcomeVars{
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Email:     acct.Email,
	}

	var tpl *template.Template
	var subject string
	switch variant {
	case core.NotifyRegisteredNoPassword:
		tpl = tplWelcomeNoPassword
		subject = "Tu cuenta fue creada"
		vars.ResetURL = fmt.Sprintf("%s/password/reset?token=%s", n.baseURL, resetToken)
	default:
		tpl = tplWelcome
		subject = "Bienvenido"
	}

	var html bytes.Buffer
	if err := tpl.Execute(&html, vars); err != nil {
		return err
	}
	text := textFallback(vars, variant)
	return n.sender.Send(acct.Email, subject, html.String(), text)
}

func textFallback(vars welcomeVars, variant core.NotificationVariant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s %s,\n\nTu cuenta fue creada con el email %s.\n", vars.FirstName, vars.LastName, vars.Email)
	if variant == core.NotifyRegisteredNoPassword {
		fmt.Fprintf(&b, "Defini tu password desde: %s\n", vars.ResetURL)
	}
	return b.String()
}
