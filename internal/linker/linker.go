// Package linker decide qué cuenta local corresponde a una identidad
// externa validada: reutiliza el vínculo existente, vincula por email o
// crea una cuenta nueva.
package linker

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/socialgate/internal/metrics"
	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/security/password"
	"github.com/dropDatabas3/socialgate/internal/security/resettoken"
	"github.com/dropDatabas3/socialgate/internal/security/token"
	"github.com/dropDatabas3/socialgate/internal/store/core"
)

var (
	// ErrNeedsEmail indica que el proveedor no entregó email y no hay
	// vínculo previo, así que no se puede resolver una cuenta.
	ErrNeedsEmail = errors.New("email required")
	// ErrAccountConflict indica una carrera de unicidad al crear la
	// cuenta o el vínculo.
	ErrAccountConflict = errors.New("account conflict")
)

// Placeholders cuando el proveedor no entrega nombre.
const (
	placeholderFirst = "New"
	placeholderLast  = "User"
)

// randomCredentialBytes alimenta la credencial generada para cuentas
// creadas sin password.
const randomCredentialBytes = 24

// Notifier envía el correo de bienvenida. resetToken viene vacío salvo
// en la variante sin password.
type Notifier interface {
	SendWelcome(ctx context.Context, acct *core.Account, variant core.NotificationVariant, resetToken string) error
}

// Linker resuelve identidades externas contra el store de cuentas.
type Linker struct {
	store    core.AccountStore
	notifier Notifier
	reset    *resettoken.Issuer
}

func New(store core.AccountStore, notifier Notifier, reset *resettoken.Issuer) *Linker {
	return &Linker{store: store, notifier: notifier, reset: reset}
}

// Resolve aplica la cadena de decisión: vínculo existente, match por
// email, cuenta nueva. Nunca modifica credenciales de cuentas
// existentes. plainPassword puede venir vacío.
func (l *Linker) Resolve(ctx context.Context, id oauth.ExternalIdentity, plainPassword string, websiteID int64) (*core.Account, error) {
	log := logger.From(ctx)

	// 1. Vínculo previo con esta identidad externa.
	link, err := l.store.FindLink(ctx, id.ExternalID, id.Provider, websiteID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if link != nil {
		acct, err := l.store.FindAccountByID(ctx, link.CustomerID)
		if err != nil {
			return nil, err
		}
		log.Info("social_link_reused",
			logger.Provider(id.Provider), logger.AccountID(acct.ID), logger.WebsiteID(websiteID))
		return acct, nil
	}

	// 2. Sin email no hay forma de vincular ni de crear.
	if !id.HasEmail() {
		return nil, ErrNeedsEmail
	}

	// 3. Cuenta existente con el mismo email: vincular sin tocarla.
	acct, err := l.store.FindAccountByEmail(ctx, id.Email, websiteID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if acct != nil {
		if _, err := l.store.CreateLink(ctx, id.ExternalID, acct.ID, id.Provider, websiteID); err != nil {
			if errors.Is(err, core.ErrAlreadyExists) {
				// Carrera: otro request creó el vínculo primero.
				return l.resolveExisting(ctx, id, websiteID)
			}
			return nil, err
		}
		log.Info("social_link_created",
			logger.Provider(id.Provider), logger.AccountID(acct.ID), logger.WebsiteID(websiteID))
		return acct, nil
	}

	// 4. Cuenta nueva.
	return l.createAccount(ctx, id, plainPassword, websiteID)
}

// resolveExisting relee el vínculo tras perder una carrera de creación.
func (l *Linker) resolveExisting(ctx context.Context, id oauth.ExternalIdentity, websiteID int64) (*core.Account, error) {
	link, err := l.store.FindLink(ctx, id.ExternalID, id.Provider, websiteID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrAccountConflict
		}
		return nil, err
	}
	return l.store.FindAccountByID(ctx, link.CustomerID)
}

func (l *Linker) createAccount(ctx context.Context, id oauth.ExternalIdentity, plainPassword string, websiteID int64) (*core.Account, error) {
	log := logger.From(ctx)

	first, last := splitName(id)
	variant := core.NotifyRegistered
	plain := plainPassword
	if plain == "" {
		// Credencial aleatoria: el usuario la resetea desde el correo.
		variant = core.NotifyRegisteredNoPassword
		var err error
		plain, err = token.GenerateOpaqueToken(randomCredentialBytes)
		if err != nil {
			return nil, err
		}
	}
	hash, err := password.HashDefault(plain)
	if err != nil {
		return nil, err
	}

	acct, err := l.store.CreateAccount(ctx, core.NewAccount{
		WebsiteID:    websiteID,
		Email:        id.Email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			return nil, ErrAccountConflict
		}
		return nil, err
	}

	if _, err := l.store.CreateLink(ctx, id.ExternalID, acct.ID, id.Provider, websiteID); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			// Carrera: otro request vinculó esta identidad primero. La
			// cuenta recién creada queda huérfana, se compensa borrándola
			// y se reusa la del ganador.
			if derr := l.store.DeleteAccount(ctx, acct.ID); derr != nil {
				log.Warn("orphan_account_cleanup_failed",
					logger.AccountID(acct.ID), logger.Err(derr))
			}
			return l.resolveExisting(ctx, id, websiteID)
		}
		return nil, err
	}
	metrics.AccountsCreated.WithLabelValues(id.Provider).Inc()
	log.Info("social_account_created",
		logger.Provider(id.Provider), logger.AccountID(acct.ID),
		logger.WebsiteID(websiteID), logger.String("variant", string(variant)))

	l.notify(ctx, acct, variant)
	return acct, nil
}

// notify envía el correo de bienvenida. Un fallo acá no aborta el
// login: se loguea y se sigue.
func (l *Linker) notify(ctx context.Context, acct *core.Account, variant core.NotificationVariant) {
	if l.notifier == nil {
		return
	}
	var reset string
	if variant == core.NotifyRegisteredNoPassword && l.reset != nil {
		tok, _, err := l.reset.Issue(acct.ID)
		if err != nil {
			logger.From(ctx).Warn("reset_token_issue_failed", logger.AccountID(acct.ID), logger.Err(err))
		} else {
			reset = tok
		}
	}
	if err := l.notifier.SendWelcome(ctx, acct, variant, reset); err != nil {
		logger.From(ctx).Warn("welcome_email_failed",
			logger.AccountID(acct.ID), logger.String("variant", string(variant)), logger.Err(err))
	}
}

// splitName arma nombre y apellido desde lo que entregue el proveedor.
// El display name manda: se corta en el primer espacio. Los campos
// explícitos solo se usan cuando no hay display name.
func splitName(id oauth.ExternalIdentity) (first, last string) {
	if display := strings.TrimSpace(id.DisplayName); display != "" {
		if i := strings.IndexByte(display, ' '); i >= 0 {
			first = display[:i]
			last = strings.TrimSpace(display[i+1:])
		} else {
			first = display
		}
	} else {
		first = strings.TrimSpace(id.FirstName)
		last = strings.TrimSpace(id.LastName)
	}
	if first == "" {
		first = placeholderFirst
	}
	if last == "" {
		last = placeholderLast
	}
	return first, last
}
