package subscriptions

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	clockport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

type Service struct {
	repo subscriberrepo.Repository
	clk  clockport.Clock

	newSubscriberID func() domain.SubscriberID
}

func NewService(repo subscriberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newSubscriberID: func() domain.SubscriberID {
			return domain.SubscriberID(uuid.NewString())
		},
	}
}

// Subscribe validates the submission and records it.
//
// A rejected submission never reaches the repository. A repository failure is
// reported as-is; nothing is retried.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (domain.Subscriber, error) {
	ns, err := domain.ParseNewSubscriber(in.Name, in.Email)
	if err != nil {
		return domain.Subscriber{}, validationError(err)
	}

	sub := domain.NewSubscriberFrom(s.newSubscriberID(), ns, s.clk.Now())
	if err := s.repo.Insert(ctx, toRecord(sub)); err != nil {
		return domain.Subscriber{}, &Error{
			Status:  http.StatusInternalServerError,
			Code:    CodeStorage,
			Message: "failed to record subscription",
			Err:     err,
		}
	}
	return sub, nil
}

func validationError(err error) *Error {
	out := &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "invalid subscription",
		Err:     err,
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		out.Message = "invalid " + ve.Field
		out.Details = map[string]any{ve.Field: ve.Reason}
	}
	return out
}

func toRecord(s domain.Subscriber) subscriberrepo.Subscriber {
	return subscriberrepo.Subscriber{
		ID:           string(s.ID),
		Email:        s.Email.String(),
		Name:         s.Name.String(),
		SubscribedAt: s.SubscribedAt,
	}
}
