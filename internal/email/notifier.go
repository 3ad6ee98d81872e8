package email

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	tagWelcome    = "club-admin-welcome"
	tagActivation = "club-admin-activation"
	tagTest       = "delivery-test"
)

var (
	welcomeHTML = template.Must(template.New("welcome").Parse(`<p>Bonjour,</p>
<p>Un compte administrateur a été créé pour <b>{{.TenantName}}</b>.</p>
<p>Activez votre accès via l'e-mail d’invitation reçu, puis connectez-vous&nbsp;:</p>
<p><a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
<p>Contact du club : {{if .TenantContact}}{{.TenantContact}}{{else}}—{{end}}</p>
`))

	activationHTML = template.Must(template.New("activation").Parse(`<p>Bonjour,</p>
<p>Voici votre lien pour activer/réactiver votre accès :</p>
<p><a href="{{.Link}}">Activer mon compte</a></p>
<p>Ou connectez-vous depuis : <a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
`))
)

// NotifierConfig configures addresses and links embedded in emails.
type NotifierConfig struct {
	PublicBaseURL  string
	DefaultReplyTo string
	// SendTimeout bounds a single background delivery.
	SendTimeout time.Duration
}

// Notifier composes the console emails. Welcome and activation emails are
// best effort: they are delivered in the background and failures are only
// logged. SendTest reports its error because delivery is its whole purpose.
type Notifier struct {
	sender Sender
	logger *slog.Logger
	cfg    NotifierConfig
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, logger *slog.Logger, cfg NotifierConfig) *Notifier {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Notifier{sender: sender, logger: logger, cfg: cfg}
}

// LoginURL is where invitation and recovery links land.
func (n *Notifier) LoginURL() string {
	return n.cfg.PublicBaseURL + "/login"
}

// WelcomeParams describes a freshly provisioned club administrator.
type WelcomeParams struct {
	AdminEmail    string
	TenantName    string
	TenantContact string
}

// WelcomeClubAdmin announces the new account, copying the club contact.
func (n *Notifier) WelcomeClubAdmin(ctx context.Context, p WelcomeParams) {
	var body bytes.Buffer
	data := struct {
		TenantName, TenantContact, LoginURL string
	}{p.TenantName, p.TenantContact, n.LoginURL()}
	if err := welcomeHTML.Execute(&body, data); err != nil {
		n.logger.ErrorContext(ctx, "render welcome email failed", "error", err)
		return
	}

	replyTo := p.TenantContact
	if replyTo == "" {
		replyTo = n.cfg.DefaultReplyTo
	}
	cc := ""
	if IsValidEmail(p.TenantContact) {
		cc = p.TenantContact
	}
	n.deliver(ctx, Message{
		To:       p.AdminEmail,
		Cc:       cc,
		ReplyTo:  replyTo,
		Subject:  "Bienvenue — Accès administrateur pour " + p.TenantName,
		Tag:      tagWelcome,
		HTMLBody: body.String(),
		TextBody: "Bienvenue. Connectez-vous sur " + n.LoginURL(),
	})
}

// ActivationLink sends an activation or recovery link. An empty link points
// the recipient at the login page.
func (n *Notifier) ActivationLink(ctx context.Context, to, link string) {
	if link == "" {
		link = n.LoginURL()
	}
	var body bytes.Buffer
	data := struct{ Link, LoginURL string }{link, n.LoginURL()}
	if err := activationHTML.Execute(&body, data); err != nil {
		n.logger.ErrorContext(ctx, "render activation email failed", "error", err)
		return
	}
	n.deliver(ctx, Message{
		To:       to,
		ReplyTo:  n.cfg.DefaultReplyTo,
		Subject:  "Votre lien d’activation administrateur",
		Tag:      tagActivation,
		HTMLBody: body.String(),
		TextBody: "Lien d’activation: " + link,
	})
}

// SendTest delivers a probe message synchronously.
func (n *Notifier) SendTest(ctx context.Context, to string) error {
	return n.sender.Send(ctx, Message{
		To:       to,
		ReplyTo:  n.cfg.DefaultReplyTo,
		Subject:  "A2Display — e-mail de test",
		Tag:      tagTest,
		HTMLBody: "<p>Ceci est un e-mail de test envoyé depuis la console A2Display.</p>",
		TextBody: "Ceci est un e-mail de test envoyé depuis la console A2Display.",
	})
}

// Wait blocks until background deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, msg Message) {
	// Detached so the delivery outlives the request that triggered it.
	bg := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(bg, n.cfg.SendTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, msg); err != nil {
			n.logger.WarnContext(sendCtx, "best-effort email failed",
				"error", err,
				"tag", msg.Tag,
			)
		}
	}()
}
