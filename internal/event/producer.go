package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	pkgkafka "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/kafka"
)

// Kafka topic constants for storefront session events.
const (
	TopicCartUpdated    = "storefront.cart.updated"
	TopicCartCleared    = "storefront.cart.cleared"
	TopicRegionSelected = "storefront.region.selected"
	TopicUserLoggedIn   = "storefront.user.logged_in"
	TopicUserLoggedOut  = "storefront.user.logged_out"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeSession = "session"
)

// Source identifier for events originating from the storefront session service.
const SourceStorefront = "storefront-session-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	CartID    string         `json:"cart_id"`
	RegionID  string         `json:"region_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	CartID    string `json:"cart_id"`
}

// RegionSelectedData is the payload for a region.selected event.
type RegionSelectedData struct {
	SessionID string `json:"session_id"`
	RegionID  string `json:"region_id"`
	Currency  string `json:"currency"`
}

// UserAuthData is the payload for login and logout events.
type UserAuthData struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	Email      string `json:"email,omitempty"`
}

// Producer publishes storefront session events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event for the session's cart.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart *medusa.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			VariantID: item.VariantID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: sessionID,
		CartID:    cart.ID,
		RegionID:  cart.RegionID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.ID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("cart_id", cart.ID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID, cartID string) error {
	data := CartClearedData{SessionID: sessionID, CartID: cartID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, cartID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("cart_id", cartID),
	)

	return nil
}

// PublishRegionSelected publishes a region.selected event.
func (p *Producer) PublishRegionSelected(ctx context.Context, sessionID, regionID, currency string) error {
	data := RegionSelectedData{SessionID: sessionID, RegionID: regionID, Currency: currency}

	event, err := pkgkafka.NewEvent(TopicRegionSelected, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create region.selected event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRegionSelected, event); err != nil {
		return fmt.Errorf("publish region.selected event: %w", err)
	}

	return nil
}

// PublishUserLoggedIn publishes a user.logged_in event.
func (p *Producer) PublishUserLoggedIn(ctx context.Context, sessionID, customerID, email string) error {
	data := UserAuthData{SessionID: sessionID, CustomerID: customerID, Email: email}

	event, err := pkgkafka.NewEvent(TopicUserLoggedIn, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create user.logged_in event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserLoggedIn, event); err != nil {
		return fmt.Errorf("publish user.logged_in event: %w", err)
	}

	return nil
}

// PublishUserLoggedOut publishes a user.logged_out event.
func (p *Producer) PublishUserLoggedOut(ctx context.Context, sessionID, customerID string) error {
	data := UserAuthData{SessionID: sessionID, CustomerID: customerID}

	event, err := pkgkafka.NewEvent(TopicUserLoggedOut, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create user.logged_out event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserLoggedOut, event); err != nil {
		return fmt.Errorf("publish user.logged_out event: %w", err)
	}

	return nil
}
