package store

import (
	"context"
	"errors"

	"supapass/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) PassBySerialAndToken(ctx context.Context, serialNumber, authToken string) (models.Pass, error) {
	var pass models.Pass
	err := s.db.WithContext(ctx).
		Where("serial_number = ? AND authentication_token = ?", serialNumber, authToken).
		First(&pass).Error
	return pass, translate(err)
}

func (s *GormStore) PassBySerialTypeToken(ctx context.Context, serialNumber, passTypeIdentifier, authToken string) (models.Pass, error) {
	var pass models.Pass
	err := s.db.WithContext(ctx).
		Where("serial_number = ? AND pass_type_identifier = ? AND authentication_token = ?",
			serialNumber, passTypeIdentifier, authToken).
		First(&pass).Error
	return pass, translate(err)
}

func (s *GormStore) PassByID(ctx context.Context, id string) (models.Pass, error) {
	var pass models.Pass
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&pass).Error
	return pass, translate(err)
}

func (s *GormStore) PassByUser(ctx context.Context, userID string) (models.Pass, error) {
	var pass models.Pass
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pass).Error
	return pass, translate(err)
}

// UpsertPassForUser creates the user's pass row on first fetch and
// refreshes the counts afterwards. Serial number and authentication
// token are minted once and never change for the life of the pass.
func (s *GormStore) UpsertPassForUser(ctx context.Context, userID, passTypeIdentifier string, stats models.UserStats, isCoreMember bool) (models.Pass, error) {
	var pass models.Pass
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND pass_type_identifier = ?", userID, passTypeIdentifier).
			First(&pass).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pass = models.Pass{
				ID:                  uuid.NewString(),
				UserID:              userID,
				SerialNumber:        uuid.NewString(),
				PassTypeIdentifier:  passTypeIdentifier,
				AuthenticationToken: uuid.NewString(),
			}
			applyCounts(&pass, stats, isCoreMember)
			return tx.Create(&pass).Error
		}
		if err != nil {
			return err
		}
		applyCounts(&pass, stats, isCoreMember)
		return tx.Model(&models.Pass{}).Where("id = ?", pass.ID).Updates(map[string]interface{}{
			"pull_requests_count":        pass.PullRequestsCount,
			"merged_pull_requests_count": pass.MergedPullRequestsCount,
			"issues_opened_count":        pass.IssuesOpenedCount,
			"total_contributions_count":  pass.TotalContributionsCount,
			"is_core_member":             pass.IsCoreMember,
		}).Error
	})
	return pass, err
}

func applyCounts(pass *models.Pass, stats models.UserStats, isCoreMember bool) {
	pass.PullRequestsCount = stats.PRs
	pass.MergedPullRequestsCount = stats.Merged
	pass.IssuesOpenedCount = stats.Issues
	pass.TotalContributionsCount = stats.Total
	pass.IsCoreMember = isCoreMember
}

func (s *GormStore) SetPassActive(ctx context.Context, passID string, active bool) error {
	return s.db.WithContext(ctx).Model(&models.Pass{}).
		Where("id = ?", passID).
		Update("is_active", active).Error
}

func (s *GormStore) UpdatePassCounts(ctx context.Context, passID string, stats models.UserStats, isCoreMember bool) error {
	return s.db.WithContext(ctx).Model(&models.Pass{}).
		Where("id = ?", passID).
		Updates(map[string]interface{}{
			"pull_requests_count":        stats.PRs,
			"merged_pull_requests_count": stats.Merged,
			"issues_opened_count":        stats.Issues,
			"total_contributions_count":  stats.Total,
			"is_core_member":             isCoreMember,
		}).Error
}

func (s *GormStore) ActivePasses(ctx context.Context) ([]models.Pass, error) {
	var passes []models.Pass
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&passes).Error
	return passes, err
}

func (s *GormStore) DeviceByLibraryID(ctx context.Context, deviceLibraryIdentifier string) (models.Device, error) {
	var device models.Device
	err := s.db.WithContext(ctx).
		Where("device_library_identifier = ?", deviceLibraryIdentifier).
		First(&device).Error
	return device, translate(err)
}

func (s *GormStore) RegisterDevice(ctx context.Context, deviceLibraryIdentifier, pushToken, passID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var device models.Device
		err := tx.Where("device_library_identifier = ?", deviceLibraryIdentifier).
			First(&device).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			device = models.Device{
				ID:                      uuid.NewString(),
				DeviceLibraryIdentifier: deviceLibraryIdentifier,
				PushToken:               pushToken,
			}
			if err := tx.Create(&device).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if device.PushToken != pushToken {
			if err := tx.Model(&models.Device{}).Where("id = ?", device.ID).
				Update("push_token", pushToken).Error; err != nil {
				return err
			}
		}

		registration := models.Registration{DeviceID: device.ID, PassID: passID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&registration).Error
	})
}

func (s *GormStore) UnregisterDevice(ctx context.Context, deviceID, passID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ? AND pass_id = ?", deviceID, passID).
			Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.Registration{}).
			Where("device_id = ?", deviceID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Where("id = ?", deviceID).Delete(&models.Device{}).Error
		}
		return nil
	})
}

func (s *GormStore) SerialsForDevice(ctx context.Context, deviceID, passTypeIdentifier string) ([]string, error) {
	var serials []string
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Joins("JOIN passes ON passes.id = registrations.pass_id").
		Where("registrations.device_id = ? AND passes.pass_type_identifier = ? AND passes.is_active = ?",
			deviceID, passTypeIdentifier, true).
		Pluck("passes.serial_number", &serials).Error
	return serials, err
}

func (s *GormStore) UserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err)
}

func (s *GormStore) UserByName(ctx context.Context, userName string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_name = ?", userName).First(&user).Error
	return user, translate(err)
}
