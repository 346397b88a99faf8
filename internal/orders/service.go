package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/internal/cart"
	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/internal/users"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Client      catalog.TxRunner
	OrderRepo   *Repository
	CatalogRepo *catalog.Repository
	AuditRepo   *audit.Repository
	UserRepo    *users.Repository
	CartStore   cart.Store
	Logger      *logger.Logger
}

// Service exposes checkout and order history.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, username string, input CheckoutInput) (OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, status string) (OrderDTO, error)
}

type service struct {
	client      catalog.TxRunner
	orderRepo   *Repository
	catalogRepo *catalog.Repository
	auditRepo   *audit.Repository
	userRepo    *users.Repository
	cartStore   cart.Store
	logg        *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.AuditRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "audit repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.CartStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &service{
		client:      params.Client,
		orderRepo:   params.OrderRepo,
		catalogRepo: params.CatalogRepo,
		auditRepo:   params.AuditRepo,
		userRepo:    params.UserRepo,
		cartStore:   params.CartStore,
		logg:        params.Logger,
	}, nil
}

// Checkout turns the caller's cart into an order. Every line is checked
// against the live catalog inside one transaction; a single unavailable
// book fails the whole order and names the offending ISBN. Prices and
// titles are snapshotted onto the order so later catalog edits do not
// rewrite history. The cart is emptied once the order is committed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, username string, input CheckoutInput) (OrderDTO, error) {
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	contact, err := s.resolveContact(ctx, userID, input)
	if err != nil {
		return OrderDTO{}, err
	}

	items, err := s.cartStore.Items(ctx, userID)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var order models.Order
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)

		orderItems := make([]models.OrderItem, 0, len(items))
		subtotal := decimal.Zero
		for _, item := range items {
			book, err := catalogRepo.FindVisibleByISBN10(ctx, item.ISBN10)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, "book no longer available").
						WithDetails(map[string]any{"isbn10": item.ISBN10})
				}
				return err
			}

			unitPrice := decimal.NewFromFloat(book.Price).Round(2)
			subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ID:         uuid.New(),
				BookISBN10: book.ISBN10,
				Title:      book.Title,
				UnitPrice:  unitPrice.InexactFloat64(),
				Quantity:   item.Quantity,
			})
		}

		subtotal = subtotal.Round(2)
		fee := feeFor(method, subtotal)
		total := subtotal.Add(fee).Round(2)

		order = models.Order{
			ID:              uuid.New(),
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			PaymentMethod:   method,
			Email:           contact.email,
			Subtotal:        subtotal.InexactFloat64(),
			Fee:             fee.InexactFloat64(),
			Total:           total.InexactFloat64(),
			ShippingAddress: contact.shipping,
			BillingAddress:  contact.billing,
			GDPRConsent:     contact.gdprConsent,
			ConsentAt:       contact.consentAt,
			Items:           orderItems,
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, &order); err != nil {
			return err
		}

		detail := order.ID.String()
		return s.auditRepo.WithTx(tx).Append(ctx, enums.AuditEventOrderPlace, username, nil, &detail)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return OrderDTO{}, typed
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	if err := s.cartStore.Clear(ctx, userID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "order.cart_clear_failed: "+err.Error())
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order.placed")
	}
	return toDTO(order), nil
}

// ListOrders returns the caller's order history, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	records, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	orders := make([]OrderDTO, 0, len(records))
	for _, record := range records {
		orders = append(orders, toDTO(record))
	}
	return orders, nil
}

// GetOrder returns one of the caller's orders.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toDTO(*order), nil
}

// UpdateStatus moves one of the caller's orders to a new lifecycle state.
func (s *service) UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, status string) (OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, parsed); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = parsed
	return toDTO(*order), nil
}

// checkoutContact is the contact and consent snapshot stamped onto an order.
type checkoutContact struct {
	email       string
	shipping    *types.Address
	billing     *types.Address
	gdprConsent bool
	consentAt   *time.Time
}

func (s *service) resolveContact(ctx context.Context, userID uuid.UUID, input CheckoutInput) (checkoutContact, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return checkoutContact{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	contact := checkoutContact{
		email:       strings.TrimSpace(input.Email),
		shipping:    input.ShippingAddress,
		billing:     input.BillingAddress,
		gdprConsent: user.GDPRConsent,
	}
	if contact.email == "" && user.Email != nil {
		contact.email = strings.TrimSpace(*user.Email)
	}
	if contact.email == "" {
		return checkoutContact{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if contact.shipping == nil || contact.shipping.IsZero() {
		contact.shipping = user.ShippingAddress
	}
	if contact.shipping == nil || !contact.shipping.Complete() {
		return checkoutContact{}, pkgerrors.New(pkgerrors.CodeValidation, "complete shipping address is required")
	}
	if contact.billing == nil || contact.billing.IsZero() {
		contact.billing = user.BillingAddress
	}
	if contact.billing == nil || !contact.billing.Complete() {
		return checkoutContact{}, pkgerrors.New(pkgerrors.CodeValidation, "complete billing address is required")
	}
	if contact.gdprConsent {
		now := time.Now().UTC()
		contact.consentAt = &now
	}
	return contact, nil
}

func toDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		lineTotal := decimal.NewFromFloat(item.UnitPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity))).
			Round(2)
		items = append(items, OrderItemDTO{
			ISBN10:    item.BookISBN10,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal.InexactFloat64(),
		})
	}
	return OrderDTO{
		ID:              order.ID,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		Email:           order.Email,
		Subtotal:        order.Subtotal,
		Fee:             order.Fee,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
