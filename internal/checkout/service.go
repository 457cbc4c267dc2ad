package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/internal/cart"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/internal/orders"
	"github.com/angelmondragon/menuorders-backend/internal/restaurants"
	"github.com/angelmondragon/menuorders-backend/pkg/config"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/metrics"
	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

// MessageLinker builds the link that hands a message to the chat app.
type MessageLinker interface {
	Link(phone, message string) (string, error)
}

// OpenInput starts a checkout for the given cart.
type OpenInput struct {
	RestaurantID uuid.UUID
	Locale       string
	Lines        []cart.Line
}

// Service drives checkout sessions from the cart to a stored order.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	SetAddonQuantity(ctx context.Context, id uuid.UUID, lineID string, addonID uuid.UUID, delta int) (*View, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, update CustomerUpdate) (*View, error)
	UpdateFulfillment(ctx context.Context, id uuid.UUID, update FulfillmentUpdate) (*View, error)
	Advance(ctx context.Context, id uuid.UUID) (*View, error)
	Back(ctx context.Context, id uuid.UUID) (*View, error)
	Submit(ctx context.Context, id uuid.UUID) (*View, error)
	Message(ctx context.Context, id uuid.UUID) (*MessageResult, error)
	Invoice(ctx context.Context, id uuid.UUID) (string, error)
	OrderInvoice(ctx context.Context, restaurantID uuid.UUID, orderNumber int64) (string, error)
	Close(ctx context.Context, id uuid.UUID) (*CloseResult, error)
}

type ServiceParams struct {
	Restaurants restaurants.Service
	Catalog     catalog.Service
	Orders      orders.Service
	Sessions    SessionStore
	Locks       redis.Locker
	Linker      MessageLinker
	Invoices    InvoiceRenderer
	Logger      *logger.Logger
	Metrics     *metrics.CheckoutMetrics
	Config      config.CheckoutConfig
	Now         func() time.Time
}

type service struct {
	restaurants restaurants.Service
	catalog     catalog.Service
	orders      orders.Service
	sessions    SessionStore
	locks       redis.Locker
	linker      MessageLinker
	invoices    InvoiceRenderer
	logg        *logger.Logger
	metrics     *metrics.CheckoutMetrics
	cfg         config.CheckoutConfig
	rules       Rules
	now         func() time.Time
}

// NewService wires the checkout flow. Metrics and Now are optional.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Restaurants == nil:
		return nil, fmt.Errorf("restaurants service required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("catalog service required")
	case params.Orders == nil:
		return nil, fmt.Errorf("orders service required")
	case params.Sessions == nil:
		return nil, fmt.Errorf("session store required")
	case params.Locks == nil:
		return nil, fmt.Errorf("submit locker required")
	case params.Linker == nil:
		return nil, fmt.Errorf("message linker required")
	case params.Invoices == nil:
		return nil, fmt.Errorf("invoice renderer required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		restaurants: params.Restaurants,
		catalog:     params.Catalog,
		orders:      params.Orders,
		sessions:    params.Sessions,
		locks:       params.Locks,
		linker:      params.Linker,
		invoices:    params.Invoices,
		logg:        params.Logger,
		metrics:     params.Metrics,
		cfg:         params.Config,
		rules:       Rules{MinPhoneLength: params.Config.MinPhoneLength},
		now:         now,
	}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*View, error) {
	restaurant, err := s.restaurants.ForOrdering(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	c, err := cart.FromLines(input.Lines)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithRestaurantID(ctx, restaurant.ID.String())

	snapshot := s.catalog.Load(ctx, restaurant.ID)
	session := NewSession(*restaurant, s.resolveLocale(input.Locale, restaurant.DefaultLocale), c, snapshot, s.now().UTC())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.IncOpened(session.Sequence.Contains(enums.CheckoutStepExtras))
	logCtx := s.logg.WithFields(s.logg.WithSessionID(ctx, session.ID.String()), map[string]any{
		"lines":      len(c.Lines),
		"first_step": session.State.Step.String(),
	})
	s.logg.Info(logCtx, "checkout session opened")
	return s.view(ctx, session), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session), nil
}

func (s *service) SetAddonQuantity(ctx context.Context, id uuid.UUID, lineID string, addonID uuid.UUID, delta int) (*View, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		_, err := session.SetAddonQuantity(lineID, addonID, delta)
		return err
	})
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, update CustomerUpdate) (*View, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.UpdateCustomer(update)
	})
}

func (s *service) UpdateFulfillment(ctx context.Context, id uuid.UUID, update FulfillmentUpdate) (*View, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.UpdateFulfillment(update)
	})
}

func (s *service) Advance(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		from := session.State.Step
		to, err := session.Advance(s.rules)
		if err != nil {
			return err
		}
		s.metrics.IncTransition(from.String(), to.String())
		return nil
	})
}

func (s *service) Back(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		from := session.State.Step
		to, err := session.Back()
		if err != nil {
			return err
		}
		s.metrics.IncTransition(from.String(), to.String())
		return nil
	})
}

// Submit stores the order. Only one submit per session runs at a time; a
// failure keeps the customer on Summary with the store's message. The order
// store keys orders by session, so a repeated submit never stores twice.
func (s *service) Submit(ctx context.Context, id uuid.UUID) (*View, error) {
	ctx = s.logg.WithSessionID(ctx, id.String())
	started := s.now()

	lock := newSubmitLock(s.locks, id, s.cfg.SubmitLockTTL)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		s.metrics.ObserveSubmission(metrics.ResultConflict, 0)
		return nil, errSubmitting()
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "release submit lock failed")
		}
	}()

	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Status == enums.SubmissionStatusSubmitting {
		// Holding the lock means no submit is running: the last one died
		// before recording its outcome.
		existing, err := s.orders.FindBySession(ctx, id)
		switch {
		case err == nil:
			s.logg.Warn(s.logg.WithOrderNumber(ctx, existing.OrderNumber), "completing interrupted submission with stored order")
			return s.completeSubmit(ctx, session, existing.OrderNumber, started)
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			s.logg.Warn(ctx, "recovering interrupted submission")
			session.FailSubmit("previous submission was interrupted")
		default:
			return nil, err
		}
	}
	if err := session.BeginSubmit(s.rules); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	input := placeOrderInput(session, s.currencyLabel(session))
	placeCtx := ctx
	if s.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		placeCtx, cancel = context.WithTimeout(ctx, s.cfg.SubmitTimeout)
		defer cancel()
	}
	order, placeErr := s.orders.PlaceOrder(placeCtx, input)
	if placeErr != nil {
		message := submissionMessage(placeErr)
		session.FailSubmit(message)
		session.UpdatedAt = s.now().UTC()
		if err := s.sessions.Save(context.WithoutCancel(ctx), session); err != nil {
			s.logg.Error(ctx, "persist failed submission state", err)
		}
		s.metrics.ObserveSubmission(metrics.ResultFailed, s.now().Sub(started))
		s.logg.Error(ctx, "order submission failed", placeErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderSubmission, placeErr, message)
	}
	return s.completeSubmit(ctx, session, order.OrderNumber, started)
}

// completeSubmit moves the session to Success. If that write fails the order
// is already stored; the session stays submitting and the next submit picks
// the stored order up again.
func (s *service) completeSubmit(ctx context.Context, session *Session, orderNumber int64, started time.Time) (*View, error) {
	session.CompleteSubmit(orderNumber, s.now())
	session.UpdatedAt = s.now().UTC()
	logCtx := s.logg.WithOrderNumber(ctx, orderNumber)
	if err := s.sessions.Save(context.WithoutCancel(ctx), session); err != nil {
		s.logg.Error(logCtx, "order stored but session update failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order was stored but checkout could not be updated, submit again to finish")
	}
	s.metrics.ObserveSubmission(metrics.ResultSuccess, s.now().Sub(started))
	s.metrics.IncTransition(enums.CheckoutStepSummary.String(), enums.CheckoutStepSuccess.String())
	s.logg.Info(logCtx, "order submitted")
	return s.view(ctx, session), nil
}

func (s *service) Message(ctx context.Context, id uuid.UUID) (*MessageResult, error) {
	session, err := s.submittedSession(ctx, id)
	if err != nil {
		return nil, err
	}
	text := FormatMessage(SessionReceipt(session, s.currencyLabel(session)))
	return &MessageResult{Text: text, WhatsAppURL: s.link(ctx, session, text)}, nil
}

func (s *service) Invoice(ctx context.Context, id uuid.UUID) (string, error) {
	session, err := s.submittedSession(ctx, id)
	if err != nil {
		return "", err
	}
	return s.render(SessionReceipt(session, s.currencyLabel(session)))
}

func (s *service) OrderInvoice(ctx context.Context, restaurantID uuid.UUID, orderNumber int64) (string, error) {
	order, err := s.orders.FindByNumber(ctx, restaurantID, orderNumber)
	if err != nil {
		return "", err
	}
	return s.render(OrderReceipt(order))
}

// Close discards the session. After a successful submit the caller should
// empty its cart; before that the cart stays as it was.
func (s *service) Close(ctx context.Context, id uuid.UUID) (*CloseResult, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Status == enums.SubmissionStatusSubmitting {
		return nil, errSubmitting()
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return nil, err
	}
	result := &CloseResult{ClearCart: session.State.Step == enums.CheckoutStepSuccess}
	s.logg.Info(s.logg.WithFields(s.logg.WithSessionID(ctx, id.String()), map[string]any{
		"step":       session.State.Step.String(),
		"clear_cart": result.ClearCart,
	}), "checkout session closed")
	return result, nil
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, apply func(*Session) error) (*View, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session), nil
}

func (s *service) submittedSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Step != enums.CheckoutStepSuccess {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been submitted yet")
	}
	return session, nil
}

func (s *service) view(ctx context.Context, session *Session) *View {
	v := buildView(session, s.rules, s.currencyLabel(session))
	if session.State.Step == enums.CheckoutStepSuccess {
		v.Message = FormatMessage(SessionReceipt(session, v.CurrencyLabel))
		v.WhatsAppURL = s.link(ctx, session, v.Message)
	}
	return v
}

func (s *service) link(ctx context.Context, session *Session, text string) string {
	url, err := s.linker.Link(session.Restaurant.WhatsAppPhone, text)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "whatsapp link unavailable")
		return ""
	}
	return url
}

func (s *service) render(r Receipt) (string, error) {
	doc, err := s.invoices.Render(r)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return doc, nil
}

func (s *service) currencyLabel(session *Session) string {
	if label := strings.TrimSpace(session.Restaurant.CurrencyLabel); label != "" {
		return label
	}
	return strings.TrimSpace(s.cfg.CurrencyLabel)
}

func (s *service) resolveLocale(requested string, restaurantDefault enums.Locale) enums.Locale {
	if locale, err := enums.ParseLocale(requested); err == nil {
		return locale
	}
	if restaurantDefault.IsValid() {
		return restaurantDefault
	}
	if locale, err := enums.ParseLocale(s.cfg.Locale()); err == nil {
		return locale
	}
	return enums.LocaleEN
}

// submissionMessage is what the customer sees after a failed store call.
func submissionMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
