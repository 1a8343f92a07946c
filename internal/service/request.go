package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/metrics"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// DonorReward is added to a donor's score when one of their items is completed.
const DonorReward = 10

// NewRequestInput is what a requester submits for an item.
type NewRequestInput struct {
	DonationItemID  uuid.UUID
	DeliveryMethod  models.DeliveryMethod
	Address         models.Address
	AdditionalNotes string
	Window          models.TimeWindow
}

// RequestDetail is a request with the item, its donor and the distance
// between requester and item.
type RequestDetail struct {
	Request  *models.Request
	Item     *models.DonationItem
	Donor    *models.User
	Distance int
}

// ValidateWindow checks that a collection window starts and ends on the same
// UTC day and does not end before it starts. An unset window is valid.
func ValidateWindow(w models.TimeWindow) error {
	if w.Start == nil && w.End == nil {
		return nil
	}
	if !w.IsSet() {
		return &ValidationError{Field: "dateTimeRange", Message: "Both start and end are required"}
	}
	start, end := w.Start.UTC(), w.End.UTC()
	if start.Truncate(24*time.Hour) != end.Truncate(24*time.Hour) {
		return &ValidationError{Field: "dateTimeRange", Message: "Start and end dates must be on the same day"}
	}
	if end.Before(start) {
		return &ValidationError{Field: "dateTimeRange", Message: "End date cannot be before start date"}
	}
	return nil
}

type RequestService struct {
	store    *store.Context
	geocoder geo.Geocoder
	logger   *logrus.Logger
}

var _ IRequestService = (*RequestService)(nil)

func NewRequestService(s *store.Context, geocoder geo.Geocoder, logger *logrus.Logger) *RequestService {
	return &RequestService{store: s, geocoder: geocoder, logger: logger}
}

// Create stores a PENDING request by userID. A user holds at most one request
// per item; a second attempt is a conflict whether the existence check or the
// unique index catches it.
func (s *RequestService) Create(ctx context.Context, userID uuid.UUID, in NewRequestInput) (*models.Request, error) {
	if err := ValidateWindow(in.Window); err != nil {
		return nil, err
	}

	exists, err := s.store.Requests.Exists(ctx, in.DonationItemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if exists {
		return nil, newError(ErrConflict, "A request already exists for this donation item")
	}

	item, err := s.store.DonationItems.FindByID(ctx, in.DonationItemID)
	if err != nil {
		return nil, notFound(err, "donation item")
	}
	if item.UserID == userID {
		return nil, newError(ErrForbidden, "you cannot request your own donation item")
	}
	if item.Status != models.DonationAvailable {
		return nil, newError(ErrInvalidState, "donation item is no longer available")
	}

	coords, err := locate(ctx, s.geocoder, in.Address)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		UserID:          userID,
		DonationItemID:  in.DonationItemID,
		DeliveryMethod:  in.DeliveryMethod,
		Address:         in.Address,
		AdditionalNotes: in.AdditionalNotes,
		Window:          in.Window,
		Status:          models.RequestPending,
	}
	req.Address.SetCoordinates(coords)

	if err := s.store.Requests.Insert(ctx, req); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A request already exists for this donation item")
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.Transition("request", models.RequestPending)
	s.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"item_id":    in.DonationItemID,
		"user_id":    userID,
	}).Info("request created")
	return req, nil
}

// Accept marks a request ACCEPTED. The donation item is left alone.
func (s *RequestService) Accept(ctx context.Context, id uuid.UUID) error {
	return acceptRequest(ctx, s.store, id)
}

func acceptRequest(ctx context.Context, s *store.Context, id uuid.UUID) error {
	req, err := s.Requests.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "request")
	}
	if req.Status == models.RequestAccepted || req.Status == models.RequestCompleted {
		return newError(ErrInvalidState, "request already accepted")
	}

	ok, err := s.Requests.SetStatusIf(ctx, id, models.RequestAccepted, models.RequestPending, models.RequestRejected)
	if err != nil {
		return fmt.Errorf("failed to accept request: %w", err)
	}
	if !ok {
		return newError(ErrInvalidState, "request already accepted")
	}
	metrics.Transition("request", models.RequestAccepted)
	return nil
}

// AcceptForItem is the donor accepting one request: the request becomes
// ACCEPTED and the item CLAIMED together, or neither changes.
func (s *RequestService) AcceptForItem(ctx context.Context, itemID, requestID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *store.Context) error {
		req, err := tx.Requests.FindByID(ctx, requestID)
		if err != nil {
			return notFound(err, "request")
		}
		if req.DonationItemID != itemID {
			return newError(ErrNotFound, "request not found")
		}
		if err := acceptRequest(ctx, tx, requestID); err != nil {
			return err
		}
		return acceptItem(ctx, tx, itemID)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"request_id": requestID, "item_id": itemID}).Info("request accepted")
	return nil
}

// Complete is the requester confirming receipt. In one transaction the item
// and request become COMPLETED, every other request for the item is
// REJECTED and the donor earns DonorReward points.
func (s *RequestService) Complete(ctx context.Context, id uuid.UUID) error {
	var rejected int64
	err := s.store.Transaction(ctx, func(tx *store.Context) error {
		req, err := tx.Requests.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "request")
		}
		if req.Status != models.RequestAccepted {
			return newError(ErrInvalidState, "Request is not accepted")
		}

		item, err := tx.DonationItems.FindByID(ctx, req.DonationItemID)
		if err != nil {
			return notFound(err, "donation item")
		}
		if err := completeItem(ctx, tx, item.ID); err != nil {
			return err
		}

		ok, err := tx.Requests.SetStatusIf(ctx, id, models.RequestCompleted, models.RequestAccepted)
		if err != nil {
			return fmt.Errorf("failed to complete request: %w", err)
		}
		if !ok {
			return newError(ErrInvalidState, "Request is not accepted")
		}

		if rejected, err = tx.Requests.RejectOthers(ctx, item.ID, id); err != nil {
			return fmt.Errorf("failed to reject other requests: %w", err)
		}

		// A donor account removed by an admin forfeits the reward.
		err = tx.Users.IncrementScore(ctx, item.UserID, DonorReward)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to reward donor: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.Transition("request", models.RequestCompleted)
	s.logger.WithFields(logrus.Fields{"request_id": id, "rejected": rejected}).Info("request completed")
	return nil
}

// RejectOthers rejects every request for itemID except keepID.
func (s *RequestService) RejectOthers(ctx context.Context, itemID, keepID uuid.UUID) error {
	n, err := s.store.Requests.RejectOthers(ctx, itemID, keepID)
	if err != nil {
		return fmt.Errorf("failed to reject requests: %w", err)
	}
	for i := int64(0); i < n; i++ {
		metrics.Transition("request", models.RequestRejected)
	}
	return nil
}

// Cancel lets a requester withdraw their own request while it is still open.
func (s *RequestService) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	req, err := s.store.Requests.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "request")
	}
	if req.UserID != userID {
		return newError(ErrForbidden, "you can only cancel your own requests")
	}
	if !req.IsOpen() {
		return newError(ErrInvalidState, "an accepted request cannot be cancelled")
	}
	if _, err := s.store.Requests.Remove(ctx, id); err != nil {
		return notFound(err, "request")
	}
	s.logger.WithField("request_id", id).Info("request cancelled")
	return nil
}

// Get returns a request with its item and donor. Only the requester and
// admins may see it.
func (s *RequestService) Get(ctx context.Context, id uuid.UUID, viewer *models.SessionUser) (*RequestDetail, error) {
	req, err := s.store.Requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "request")
	}
	if viewer == nil || (req.UserID != viewer.ID && viewer.Role != models.RoleAdmin) {
		return nil, newError(ErrForbidden, "User is not authorised to view this request")
	}

	item, err := s.store.DonationItems.FindByID(ctx, req.DonationItemID)
	if err != nil {
		return nil, notFound(err, "request")
	}
	donor, err := s.store.Users.FindByID(ctx, item.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return &RequestDetail{
		Request:  req,
		Item:     item,
		Donor:    donor,
		Distance: geo.Distance(req.Address.Coordinates(), item.Address.Coordinates()),
	}, nil
}

// GetForItem returns a request only if it belongs to itemID.
func (s *RequestService) GetForItem(ctx context.Context, itemID, requestID uuid.UUID) (*models.Request, error) {
	req, err := s.store.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, "request")
	}
	if req.DonationItemID != itemID {
		return nil, newError(ErrNotFound, "request not found")
	}
	user, err := s.store.Users.FindByID(ctx, req.UserID)
	if err == nil {
		req.User = user
	}
	return req, nil
}

func (s *RequestService) FindByDonationItem(ctx context.Context, itemID uuid.UUID) ([]models.Request, error) {
	reqs, err := s.store.Requests.FindByDonationItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	reqs, err := s.store.Requests.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) CountByDonationItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	return s.store.Requests.CountByDonationItem(ctx, itemID)
}
