package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homevisit/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error

	ListAvailable(ctx context.Context) ([]AvailableGroup, error)
	AvailableInGroup(ctx context.Context, groupID int64) ([]model.Meeting, error)
	Reserve(ctx context.Context, req ReservationRequest, now time.Time) (*Reservation, error)
	GetReservation(ctx context.Context, reference string) (*model.Household, error)

	CreateFeedback(ctx context.Context, feedback *model.Feedback) error
	CreateMeetingGroups(ctx context.Context, groups []model.MeetingGroup) error

	PutSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListAvailable returns every unreserved meeting grouped by its MeetingGroup,
// groups ordered by date and meetings by start time. Each call queries the
// database again so reservations made by others show up immediately.
func (s *gormStore) ListAvailable(ctx context.Context) ([]AvailableGroup, error) {
	var meetings []model.Meeting
	if err := s.db.WithContext(ctx).
		Preload("Group").
		Where("household_id IS NULL").
		Order("starts_at ASC").
		Order("id ASC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list available meetings: %w", err)
	}
	return groupMeetings(meetings), nil
}

func groupMeetings(meetings []model.Meeting) []AvailableGroup {
	index := make(map[int64]int)
	var groups []AvailableGroup
	for _, m := range meetings {
		i, ok := index[m.GroupID]
		if !ok {
			i = len(groups)
			index[m.GroupID] = i
			groups = append(groups, AvailableGroup{Group: m.Group})
		}
		groups[i].Meetings = append(groups[i].Meetings, m)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := groups[a].Group, groups[b].Group
		if !ga.Date.Equal(gb.Date) {
			return ga.Date.Before(gb.Date)
		}
		return ga.ID < gb.ID
	})
	return groups
}

// AvailableInGroup returns the unreserved meetings of one group ordered by start.
func (s *gormStore) AvailableInGroup(ctx context.Context, groupID int64) ([]model.Meeting, error) {
	var group model.MeetingGroup
	if err := s.db.WithContext(ctx).First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load meeting group %d: %w", groupID, err)
	}

	var meetings []model.Meeting
	if err := s.db.WithContext(ctx).
		Where("group_id = ? AND household_id IS NULL", groupID).
		Order("starts_at ASC").
		Order("id ASC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings for group %d: %w", groupID, err)
	}
	return meetings, nil
}

// TryReserve claims meetingID for householdID with a single conditional update.
// It reports true only when exactly one open row was changed. Concurrent callers
// for the same meeting serialize on the row lock, and every caller after the
// winner re-evaluates "household_id IS NULL" against the committed row and
// matches nothing.
func TryReserve(tx *gorm.DB, meetingID, householdID int64, now time.Time) (bool, error) {
	result := tx.Model(&model.Meeting{}).
		Where("id = ? AND household_id IS NULL", meetingID).
		Updates(map[string]any{
			"household_id": householdID,
			"reserved":     now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to reserve meeting %d: %w", meetingID, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Reserve creates the household and its owner and claims the meeting, all in one
// transaction. When the meeting is no longer open nothing is kept and
// ErrMeetingUnavailable is returned.
func (s *gormStore) Reserve(ctx context.Context, req ReservationRequest, now time.Time) (*Reservation, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	household := model.Household{
		Reference: uuid.NewString(),
		Address:   req.Address,
	}
	if err := tx.Create(&household).Error; err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	owner := model.Person{
		FirstName:   req.Owner.FirstName,
		LastName:    req.Owner.LastName,
		PhoneNumber: req.Owner.PhoneNumber,
		Email:       req.Owner.Email,
		HouseholdID: household.ID,
	}
	if err := tx.Create(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	won, err := TryReserve(tx, req.MeetingID, household.ID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrMeetingUnavailable
	}

	var meeting model.Meeting
	if err := tx.Preload("Group").First(&meeting, req.MeetingID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload meeting %d: %w", req.MeetingID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}
	committed = true

	household.People = []model.Person{owner}
	household.Meetings = []model.Meeting{meeting}
	return &Reservation{Household: household, Owner: owner, Meeting: meeting}, nil
}

// GetReservation loads a household with its people and meetings by reference.
func (s *gormStore) GetReservation(ctx context.Context, reference string) (*model.Household, error) {
	var household model.Household
	err := s.db.WithContext(ctx).
		Preload("People", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Meetings", func(db *gorm.DB) *gorm.DB { return db.Order("starts_at ASC") }).
		Preload("Meetings.Group").
		Where("reference = ?", reference).
		First(&household).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &household, nil
}

func (s *gormStore) CreateFeedback(ctx context.Context, feedback *model.Feedback) error {
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// CreateMeetingGroups inserts a batch of groups and their meetings atomically.
func (s *gormStore) CreateMeetingGroups(ctx context.Context, groups []model.MeetingGroup) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range groups {
			meetings := groups[i].Meetings
			groups[i].Meetings = nil
			if err := tx.Create(&groups[i]).Error; err != nil {
				return fmt.Errorf("failed to create meeting group %q: %w", groups[i].Name, err)
			}
			if len(meetings) == 0 {
				continue
			}
			for j := range meetings {
				meetings[j].GroupID = groups[i].ID
			}
			if err := tx.Create(&meetings).Error; err != nil {
				return fmt.Errorf("failed to create meetings for group %q: %w", groups[i].Name, err)
			}
			groups[i].Meetings = meetings
		}
		return nil
	})
}

// PutSubscription creates or replaces the keys of a push subscription.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
