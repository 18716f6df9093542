package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends the lifecycle emails. Every send is best effort: a broken
// SMTP setup is logged and the operation that triggered the mail proceeds.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	portRaw := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || portRaw == "" {
		log.Println("SMTP no configurado, los correos quedan deshabilitados")
		return &Mailer{enabled: false}
	}

	port, err := strconv.Atoi(portRaw)
	if err != nil {
		log.Printf("SMTP_PORT inválido (%s), los correos quedan deshabilitados", portRaw)
		return &Mailer{enabled: false}
	}

	if from == "" {
		from = user
	}

	return &Mailer{
		dialer:  gomail.NewDialer(host, port, user, password),
		from:    from,
		enabled: true,
	}
}

func (m *Mailer) send(to, subject, htmlBody string) {
	if !m.enabled {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("No se pudo enviar el correo a %s: %v", to, err)
	}
}

// SendRequisitionAuthorized notifies the requester that the warehouse signed
// off on the requisition.
func (m *Mailer) SendRequisitionAuthorized(req *models.Requisition) {
	subject := fmt.Sprintf("Pedido %d autorizado", req.ID)
	body := requisitionBody(
		"Su pedido fue autorizado y está en proceso de alistamiento.",
		req,
	)
	m.send(req.Email, subject, body)
}

// SendRequisitionDelivered notifies the requester about the dispatched
// quantities.
func (m *Mailer) SendRequisitionDelivered(req *models.Requisition) {
	subject := fmt.Sprintf("Pedido %d entregado", req.ID)
	body := requisitionBody(
		"Se registró una salida de inventario para su pedido.",
		req,
	)
	m.send(req.Email, subject, body)
}

func (m *Mailer) SendLoanHandout(loan *models.Loan) {
	subject := fmt.Sprintf("Préstamo %d entregado", loan.ID)
	body := loanBody(
		"Las herramientas de su préstamo fueron entregadas.",
		loan,
	)
	m.send(loan.Email, subject, body)
}

func (m *Mailer) SendLoanReturn(loan *models.Loan) {
	subject := fmt.Sprintf("Préstamo %d devuelto", loan.ID)
	body := loanBody(
		"Se registró la devolución de las herramientas de su préstamo.",
		loan,
	)
	m.send(loan.Email, subject, body)
}

func requisitionBody(intro string, req *models.Requisition) string {
	var b strings.Builder
	b.WriteString("<h2>Banco de Herramientas</h2>")
	b.WriteString("<p>" + intro + "</p>")
	b.WriteString("<p>Ficha: <strong>" + req.FichaCode + "</strong> — Área: " + req.Area + "</p>")
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Producto</th><th>Cantidad solicitada</th><th>Cantidad entregada</th></tr>")
	for _, line := range req.Lines {
		b.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%d</td><td>%d</td></tr>",
			line.ProductName, line.Requested, line.Dispatched,
		))
	}
	b.WriteString("</table>")
	return b.String()
}

func loanBody(intro string, loan *models.Loan) string {
	var b strings.Builder
	b.WriteString("<h2>Banco de Herramientas</h2>")
	b.WriteString("<p>" + intro + "</p>")
	b.WriteString("<p>Ficha: <strong>" + loan.FichaCode + "</strong> — Área: " + loan.Area + "</p>")
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Herramienta</th><th>Código</th><th>Observaciones</th></tr>")
	for _, line := range loan.Lines {
		notes := ""
		if line.Notes != nil {
			notes = *line.Notes
		}
		b.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			line.ToolName, line.ToolCode, notes,
		))
	}
	b.WriteString("</table>")
	return b.String()
}
