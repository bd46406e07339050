package usecase

import (
	"context"
	"errors"

	mailer "github.com/moonchanyong/arom-server/internal/adapters/mail"
	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

type ContactInput struct {
	Email   string `json:"email" form:"email"`
	Title   string `json:"title" form:"title"`
	Details string `json:"details" form:"details"`
	Type    string `json:"type" form:"type"`
}

type HelpService struct {
	logger       pkglog.Logger
	users        mongodb.UserRepository
	staticData   mongodb.StaticDataRepository
	mail         mailer.Sender
	contactEmail string
}

func NewHelpService(logger pkglog.Logger, users mongodb.UserRepository, staticData mongodb.StaticDataRepository, mail mailer.Sender, contactEmail string) *HelpService {
	return &HelpService{
		logger:       logger,
		users:        users,
		staticData:   staticData,
		mail:         mail,
		contactEmail: contactEmail,
	}
}

func (s *HelpService) List(ctx context.Context) ([]map[string]interface{}, error) {
	entries, err := s.staticData.List(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		data = append(data, entries[i].Marshal())
	}
	return data, nil
}

// Contact mails the question to the operator address, cc the sender so they
// keep a copy. An unknown sender email is fine; the name is just blank then.
func (s *HelpService) Contact(ctx context.Context, input ContactInput) error {
	name := ""
	if user, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		name = user.Name
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return err
	}

	body, err := mailer.RenderContact(name, input.Details)
	if err != nil {
		return err
	}
	msg := mailer.Message{
		To:       []string{s.contactEmail},
		Cc:       []string{input.Email},
		Subject:  input.Title,
		HTMLBody: body,
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return httperr.Internal("Email Server Error: %v", err)
	}
	s.logger.Info().Str("from", input.Email).Msg("contact mail sent")
	return nil
}
