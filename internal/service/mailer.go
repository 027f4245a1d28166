package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// How many queued messages a single drain pass takes.
	mailBatchSize = 5

	// Delay before the drainer reschedules itself when messages remain.
	mailDrainDelay = time.Second

	mailSendTimeout = 10 * time.Second
)

// Message is an outbound email ready to hand to the provider.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender delivers messages through an outbound provider. SendBatch may
// deliver all-or-nothing; the mailer falls back to Send per message when the
// batch fails.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
	SendBatch(ctx context.Context, msgs []Message) error
}

// AppointmentDetails is what the email templates need about a booking.
type AppointmentDetails struct {
	ID      uuid.UUID
	Date    time.Time
	Time    string
	Service string
}

// Mailer queues confirmation and reminder emails and drains them in the
// background so the appointment write path never waits on the provider.
//
// The queue is in-process and unbounded; messages are lost on restart and
// each one gets at most one batch attempt plus one individual retry. That is
// deliberate: a dropped confirmation email is acceptable, a slow create is
// not.
type Mailer struct {
	sender      EmailSender
	log         *logrus.Logger
	frontendURL string

	mu         sync.Mutex
	queue      []Message
	processing bool

	stopped atomic.Bool
}

func NewMailer(sender EmailSender, log *logrus.Logger, frontendURL string) *Mailer {
	return &Mailer{
		sender:      sender,
		log:         log,
		frontendURL: frontendURL,
	}
}

// Stop prevents further drain passes. Queued messages are dropped; the queue
// has no persistence.
func (m *Mailer) Stop() {
	m.stopped.Store(true)
}

// EnqueueConfirmation queues the booking confirmation email. It never
// returns an error: delivery failures are logged by the drainer only.
func (m *Mailer) EnqueueConfirmation(toEmail string, details AppointmentDetails) {
	editLink := fmt.Sprintf("%s/login?redirect=/appointment/edit/%s", m.frontendURL, details.ID)
	calendarLink := fmt.Sprintf("%s/login?redirect=/calendar", m.frontendURL)
	formattedDate := formatItalianDate(details.Date, true)

	msg := Message{
		To:      toEmail,
		Subject: "📅 Conferma Appuntamento - EasyCare",
		HTML:    confirmationHTML(formattedDate, details.Time, details.Service, editLink, calendarLink),
		Text: fmt.Sprintf(`APPUNTAMENTO CONFERMATO - EasyCare

Ciao! La tua prenotazione è confermata:

📅 Data: %s
⏰ Ora: %s
🔬 Servizio: %s

Puoi modificare l'appuntamento visitando:
%s

Oppure visualizza il calendario:
%s

Riceverai un promemoria 24 ore prima dell'appuntamento.

Grazie per aver scelto EasyCare!
`, formattedDate, details.Time, details.Service, editLink, calendarLink),
	}

	m.enqueue(msg)
	m.log.Infof("Email added to queue for %s", toEmail)
}

// EnqueueReminder queues the day-before reminder email.
func (m *Mailer) EnqueueReminder(toEmail string, details AppointmentDetails) {
	editLink := fmt.Sprintf("%s/login?redirect=/appointment/edit/%s", m.frontendURL, details.ID)
	formattedDate := formatItalianDate(details.Date, false)

	msg := Message{
		To:      toEmail,
		Subject: "🔔 Promemoria Appuntamento Domani - EasyCare",
		HTML:    reminderHTML(formattedDate, details.Time, details.Service, editLink),
		Text: fmt.Sprintf(`PROMEMORIA - EasyCare

Ti ricordiamo che hai un appuntamento domani:

📅 %s
⏰ %s
🔬 %s

Modifica se necessario: %s
`, formattedDate, details.Time, details.Service, editLink),
	}

	m.enqueue(msg)
}

// QueueLen reports how many messages are waiting.
func (m *Mailer) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Mailer) enqueue(msg Message) {
	if m.stopped.Load() {
		return
	}

	m.mu.Lock()
	m.queue = append(m.queue, msg)
	start := !m.processing
	if start {
		m.processing = true
	}
	m.mu.Unlock()

	if start {
		go m.process()
	}
}

// process drains up to mailBatchSize messages, then either reschedules
// itself after mailDrainDelay or marks the drainer idle. Exactly one drainer
// runs at a time; the processing flag is the handoff.
func (m *Mailer) process() {
	if m.stopped.Load() {
		m.mu.Lock()
		m.processing = false
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	n := len(m.queue)
	if n > mailBatchSize {
		n = mailBatchSize
	}
	batch := make([]Message, n)
	copy(batch, m.queue[:n])
	m.queue = m.queue[n:]
	m.mu.Unlock()

	if n > 0 {
		m.send(batch)
	}

	m.mu.Lock()
	if len(m.queue) > 0 && !m.stopped.Load() {
		time.AfterFunc(mailDrainDelay, m.process)
	} else {
		m.processing = false
	}
	m.mu.Unlock()
}

// send tries the batch in one go, and on failure retries each message
// individually. Failures are logged and dropped, never propagated.
func (m *Mailer) send(batch []Message) {
	ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
	defer cancel()

	var err error
	if len(batch) == 1 {
		err = m.sender.Send(ctx, batch[0])
	} else {
		err = m.sender.SendBatch(ctx, batch)
	}
	if err == nil {
		m.log.Infof("%d email(s) sent successfully", len(batch))
		return
	}

	m.log.Warnf("Failed to send email batch: %+v", err)
	if len(batch) == 1 {
		return
	}

	for _, msg := range batch {
		singleCtx, singleCancel := context.WithTimeout(context.Background(), mailSendTimeout)
		if sendErr := m.sender.Send(singleCtx, msg); sendErr != nil {
			m.log.Warnf("Failed to send email to %s: %+v", msg.To, sendErr)
		} else {
			m.log.Infof("Single email sent to %s", msg.To)
		}
		singleCancel()
	}
}

func confirmationHTML(date, timeLabel, service, editLink, calendarLink string) string {
	return fmt.Sprintf(`
<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f6f8; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
    <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px 20px; text-align: center;">
      <h1 style="color: #ffffff; font-size: 26px; margin: 0;">✅ Appuntamento Confermato!</h1>
    </div>
    <div style="padding: 40px 30px;">
      <p style="font-size: 18px; color: #333;">Ciao! 🎉 <strong>La tua prenotazione è confermata</strong>. Ecco tutti i dettagli:</p>
      <div style="background-color: #f8f9ff; padding: 25px; border-radius: 10px; border-left: 4px solid #667eea;">
        <p style="margin: 5px 0;"><strong>📅 Data:</strong> %s</p>
        <p style="margin: 5px 0;"><strong>⏰ Orario:</strong> %s</p>
        <p style="margin: 5px 0;"><strong>🔬 Servizio:</strong> %s</p>
      </div>
      <div style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #28a745; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px; margin: 0 10px;">✏️ Modifica Appuntamento</a>
        <a href="%s" style="background-color: #007bff; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px; margin: 0 10px;">📅 Vedi Calendario</a>
      </div>
      <p style="font-size: 14px; color: #856404;"><strong>💡 Promemoria:</strong> Riceverai un messaggio di promemoria 24 ore prima dell'appuntamento.</p>
      <hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">
      <p style="font-size: 14px; color: #666; text-align: center;">Grazie per aver scelto <strong>EasyCare</strong> 💙</p>
    </div>
  </div>
  <p style="text-align: center; font-size: 12px; color: #999;">Questa email è stata generata automaticamente, non rispondere a questo messaggio.</p>
</div>`, date, timeLabel, service, editLink, calendarLink)
}

func reminderHTML(date, timeLabel, service, editLink string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; background-color: #fff8e1; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 10px; border-left: 6px solid #ff9800;">
    <div style="padding: 30px;">
      <h2 style="color: #f57c00; margin-top: 0;">🔔 Promemoria Appuntamento</h2>
      <p style="font-size: 16px; color: #333;">Ti ricordiamo che hai un appuntamento <strong>domani</strong>:</p>
      <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
        <p style="margin: 5px 0;"><strong>📅 %s</strong></p>
        <p style="margin: 5px 0;"><strong>⏰ %s</strong></p>
        <p style="margin: 5px 0;"><strong>🔬 %s</strong></p>
      </div>
      <div style="text-align: center; margin-top: 25px;">
        <a href="%s" style="background-color: #ff9800; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Modifica se necessario</a>
      </div>
    </div>
  </div>
</div>`, date, timeLabel, service, editLink)
}
