package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staffhire/internal/domain/activity"
	"staffhire/internal/domain/auth"
	"staffhire/internal/platform/payment"
)

var (
	ErrPlanNotFound    = errors.New("subscription plan not found")
	ErrPaymentFailed   = errors.New("payment was not successful")
	ErrAmountMismatch  = errors.New("payment amount does not cover the plan price")
	ErrAlreadyActive   = errors.New("this plan is already active")
	ErrPaymentRequired = errors.New("this plan requires payment")
)

type StoreAPI interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	PlanByCode(ctx context.Context, code string) (Plan, error)
	ActiveSubscription(ctx context.Context, clientID string) (*Subscription, error)
	History(ctx context.Context, clientID string, limit, offset int) ([]Subscription, error)
	Activate(ctx context.Context, clientID string, plan Plan, reference string, amount float64, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) ([]string, error)
}

type Recorder interface {
	Record(ctx context.Context, clientID, etype, title, body string)
}

type Service struct {
	Store       StoreAPI
	Gateway     payment.Gateway
	Activity    Recorder
	CallbackURL string

	now func() time.Time
}

func NewService(store StoreAPI, gateway payment.Gateway, recorder Recorder, callbackURL string) *Service {
	return &Service{Store: store, Gateway: gateway, Activity: recorder, CallbackURL: callbackURL, now: time.Now}
}

func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	return s.Store.ListPlans(ctx)
}

func (s *Service) Current(ctx context.Context, sess auth.Session) (*Subscription, error) {
	return s.Store.ActiveSubscription(ctx, sess.ClientID)
}

func (s *Service) History(ctx context.Context, sess auth.Session, limit, offset int) ([]Subscription, error) {
	return s.Store.History(ctx, sess.ClientID, limit, offset)
}

// CheckoutResult is either an immediately activated free plan or a redirect
// to the gateway's hosted payment page.
type CheckoutResult struct {
	Activated        bool   `json:"activated"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	Reference        string `json:"reference,omitempty"`
}

// Checkout starts a plan change. Free plans activate on the spot; paid plans
// come back as a gateway checkout that must be completed and then verified
// through Activate. The price sent to the gateway is the server-side plan
// price, never a client-supplied amount.
func (s *Service) Checkout(ctx context.Context, sess auth.Session, email, planCode string) (CheckoutResult, error) {
	plan, err := s.Store.PlanByCode(ctx, planCode)
	if err != nil {
		return CheckoutResult{}, err
	}

	current, err := s.Store.ActiveSubscription(ctx, sess.ClientID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if current != nil && current.PlanCode == plan.Code {
		return CheckoutResult{}, ErrAlreadyActive
	}

	if plan.Price == 0 {
		if _, err := s.Store.Activate(ctx, sess.ClientID, plan, "", 0, s.now()); err != nil {
			return CheckoutResult{}, err
		}
		s.Activity.Record(ctx, sess.ClientID, activity.TypeSubscriptionActivated,
			"Subscription activated", fmt.Sprintf("You are now on the %s plan.", plan.Name))
		return CheckoutResult{Activated: true}, nil
	}

	reference := uuid.NewString()
	checkout, err := s.Gateway.Initiate(ctx, payment.InitiateRequest{
		Email:       email,
		AmountMajor: plan.Price,
		Reference:   reference,
		CallbackURL: s.CallbackURL,
		Metadata: map[string]string{
			"client_id": sess.ClientID,
			"plan_code": plan.Code,
		},
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{
		AuthorizationURL: checkout.AuthorizationURL,
		Reference:        checkout.Reference,
	}, nil
}

// Activate completes a paid checkout: the reference is verified against the
// gateway and the plan switches only if the charge succeeded and covers the
// plan price. Replaying an already-consumed reference is a quiet no-op.
func (s *Service) Activate(ctx context.Context, sess auth.Session, planCode, reference string) error {
	plan, err := s.Store.PlanByCode(ctx, planCode)
	if err != nil {
		return err
	}
	if plan.Price == 0 {
		return ErrPaymentRequired
	}

	verification, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		return err
	}
	if !verification.Success {
		return ErrPaymentFailed
	}
	if verification.AmountMajor < plan.Price {
		return ErrAmountMismatch
	}

	created, err := s.Store.Activate(ctx, sess.ClientID, plan, reference, verification.AmountMajor, s.now())
	if err != nil {
		return err
	}
	if created {
		s.Activity.Record(ctx, sess.ClientID, activity.TypeSubscriptionActivated,
			"Subscription activated", fmt.Sprintf("You are now on the %s plan.", plan.Name))
	}
	return nil
}

// AccessPercent resolves the catalog quota for a client's tier, falling back
// to the free plan when the tier is unknown.
func (s *Service) AccessPercent(ctx context.Context, tier string) (int, error) {
	plan, err := s.Store.PlanByCode(ctx, tier)
	if errors.Is(err, ErrPlanNotFound) {
		plan, err = s.Store.PlanByCode(ctx, FreePlanCode)
	}
	if err != nil {
		return 0, err
	}
	return plan.AccessPercent, nil
}

// ExpireDue is the sweep entry point run by the background job.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	clientIDs, err := s.Store.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, clientID := range clientIDs {
		s.Activity.Record(ctx, clientID, activity.TypeSubscriptionExpired,
			"Subscription expired", "Your subscription has expired and your account is back on the free plan.")
	}
	return len(clientIDs), nil
}
