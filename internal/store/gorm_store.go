package store

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"reluctant-seller-api/internal/domain/documents"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) UpsertUserByEmail(ctx context.Context, email string, stripeCustomerID *string) (*users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing users.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		if stripeCustomerID != nil && *stripeCustomerID != "" &&
			(existing.StripeCustomerID == nil || *existing.StripeCustomerID != *stripeCustomerID) {
			if err := s.db.WithContext(ctx).Model(&users.User{}).
				Where("id = ?", existing.ID).
				Update("stripe_customer_id", *stripeCustomerID).Error; err != nil {
				return nil, err
			}
			existing.StripeCustomerID = stripeCustomerID
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := users.User{
		ID:               uuid.NewString(),
		Email:            email,
		StripeCustomerID: stripeCustomerID,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent webhook or verify call may have inserted the same
		// email between our lookup and create; that row wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.GetUserByEmail(ctx, email)
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) SetSubscriptionState(ctx context.Context, state SubscriptionState) error {
	var existing subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("external_subscription_id = ?", state.ExternalSubscriptionID).
		First(&existing).Error
	if err == nil {
		return s.db.WithContext(ctx).Model(&subscriptions.Subscription{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"status":             state.Status,
				"current_period_end": state.CurrentPeriodEnd,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	provider := state.Provider
	if provider == "" {
		provider = subscriptions.ProviderStripe
	}
	sub := subscriptions.Subscription{
		ID:                     uuid.NewString(),
		UserID:                 state.UserID,
		ExternalSubscriptionID: &state.ExternalSubscriptionID,
		Provider:               provider,
		PlanType:               state.PlanType,
		Status:                 state.Status,
		CurrentPeriodEnd:       state.CurrentPeriodEnd,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Webhook and verify raced on the same external id; fold our
			// write into an update of the row that won.
			return s.UpdateSubscriptionStatus(ctx, state.ExternalSubscriptionID, state.Status, state.CurrentPeriodEnd)
		}
		return err
	}
	return nil
}

func (s *gormStore) CreateSubscription(ctx context.Context, userID, provider, planType, status string) error {
	sub := subscriptions.Subscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		Provider: provider,
		PlanType: planType,
		Status:   status,
	}
	return s.db.WithContext(ctx).Create(&sub).Error
}

func (s *gormStore) UpdateSubscriptionStatus(ctx context.Context, externalSubscriptionID, status string, periodEnd *time.Time) error {
	res := s.db.WithContext(ctx).Model(&subscriptions.Subscription{}).
		Where("external_subscription_id = ?", externalSubscriptionID).
		Updates(map[string]interface{}{
			"status":             status,
			"current_period_end": periodEnd,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Provider pushed a status for a subscription we never recorded,
		// e.g. a webhook arriving before the verify path ran. Worth seeing
		// in the logs, not worth failing the webhook over.
		log.Printf("subscription status update for unknown external id %s (status=%s)", externalSubscriptionID, status)
	}
	return nil
}

// HasActiveEntitlement derives current access from subscription rows. Rows
// with an entitling status but no period end count as open-ended grants:
// they are written before the billing period is known, and revocation always
// arrives as a status change.
func (s *gormStore) HasActiveEntitlement(ctx context.Context, userID string, lifetimeHint bool) (bool, error) {
	entitling := []string{subscriptions.StatusActive, subscriptions.StatusPaid}

	if lifetimeHint {
		var count int64
		err := s.db.WithContext(ctx).Model(&subscriptions.Subscription{}).
			Where("user_id = ? AND plan_type = ? AND status IN ?", userID, subscriptions.PlanLifetime, entitling).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}

	var sub subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND (current_period_end IS NULL OR plan_type = ?)",
			userID, entitling, subscriptions.PlanLifetime).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *gormStore) MarkWebhookProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	event := subscriptions.WebhookEvent{
		ID:         uuid.NewString(),
		Provider:   provider,
		EventID:    eventID,
		ReceivedAt: time.Now(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) EnsurePlaybookDocument(ctx context.Context) (*documents.Document, error) {
	var existing documents.Document
	err := s.db.WithContext(ctx).Where("slug = ?", documents.PlaybookSlug).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	doc := documents.Document{
		ID:          uuid.NewString(),
		Slug:        documents.PlaybookSlug,
		Title:       documents.PlaybookTitle,
		FilePath:    documents.PlaybookPath,
		MimeType:    "application/pdf",
		IsPaywalled: true,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the bootstrap race; the slug is unique, so fetch the row
			// the winner created.
			err = s.db.WithContext(ctx).Where("slug = ?", documents.PlaybookSlug).First(&existing).Error
			if err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *gormStore) ListActiveDocuments(ctx context.Context) ([]documents.Document, error) {
	var docs []documents.Document
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&docs).Error
	return docs, err
}

func (s *gormStore) FindActiveDocument(ctx context.Context, idOrSlug string) (*documents.Document, error) {
	var doc documents.Document
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND (id = ? OR slug = ?)", true, idOrSlug, idOrSlug).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *gormStore) LogDocumentAccess(ctx context.Context, userID, documentID, ipAddress, userAgent string) error {
	entry := documents.AccessLog{
		ID:         uuid.NewString(),
		UserID:     &userID,
		DocumentID: &documentID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}
