// Package mailer envía el correo transaccional de la plataforma vía Mailjet.
package mailer

import (
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"
)

type Mailer struct {
	client *mailjet.Client
	sender string
}

func New(apiKey, secretKey, sender string) *Mailer {
	return &Mailer{
		client: mailjet.NewMailjetClient(apiKey, secretKey),
		sender: sender,
	}
}

func (m *Mailer) EnviarBienvenida(to, nombre string) error {
	html := fmt.Sprintf(`<h1>¡Bienvenido a Verdeando, %s!</h1>
<p>Tu cuenta ya está activa. Acercá tus residuos a un punto verde y empezá a sumar puntos.</p>`, nombre)
	return m.enviar(to, "¡Bienvenido a Verdeando!", html)
}

func (m *Mailer) EnviarRecuperacion(to, url string) error {
	html := fmt.Sprintf(`<h1>Recuperá tu contraseña</h1>
<p>Hacé clic en el siguiente enlace para restablecer tu contraseña. El enlace vence en una hora.</p>
<p><a href="%s">Restablecer contraseña</a></p>`, url)
	return m.enviar(to, "Recuperación de contraseña", html)
}

func (m *Mailer) enviar(to, subject, html string) error {
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From:     &mailjet.RecipientV31{Email: m.sender, Name: "Verdeando"},
			To:       &mailjet.RecipientsV31{{Email: to}},
			Subject:  subject,
			HTMLPart: html,
		}},
	}
	if _, err := m.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
