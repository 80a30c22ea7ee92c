package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores polls in a relational database. The connection must
// be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (v *GormRepository) Kind() string { return v.db.Dialector.Name() }

func (v *GormRepository) Ping(ctx context.Context) error {
	conn, err := v.db.DB()
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}

func preloadQuestions(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

func (v *GormRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if err := v.db.WithContext(ctx).Create(poll).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("unable to create poll: %w", err)
	}
	return nil
}

func (v *GormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := v.db.WithContext(ctx).Model(&models.Poll{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (v *GormRepository) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	var poll models.Poll
	if err := preloadQuestions(v.db.WithContext(ctx)).Where("id = ?", id).First(&poll).Error; err != nil {
		return poll, notFound(err)
	}
	return poll, nil
}

func (v *GormRepository) GetPollByCode(ctx context.Context, code string) (models.Poll, error) {
	var poll models.Poll
	if err := preloadQuestions(v.db.WithContext(ctx)).Where("code = ?", code).First(&poll).Error; err != nil {
		return poll, notFound(err)
	}
	return poll, nil
}

func (v *GormRepository) ListPolls(ctx context.Context, ownerSession string) ([]models.Poll, error) {
	var polls []models.Poll
	if err := preloadQuestions(v.db.WithContext(ctx)).
		Where("owner_session = ?", ownerSession).
		Order("created_at DESC").
		Find(&polls).Error; err != nil {
		return polls, err
	}
	if len(polls) == 0 {
		return polls, nil
	}

	idx := lo.Map(polls, func(item models.Poll, _ int) string {
		return item.ID
	})
	var counts []struct {
		PollID string
		Count  int64
	}
	if err := v.db.WithContext(ctx).Model(&models.Response{}).
		Select("poll_id, COUNT(id) as count").
		Where("poll_id IN ?", idx).
		Group("poll_id").
		Scan(&counts).Error; err != nil {
		return polls, err
	}
	mapping := lo.SliceToMap(counts, func(item struct {
		PollID string
		Count  int64
	}) (string, int64) {
		return item.PollID, item.Count
	})
	for i := range polls {
		polls[i].ResponseCount = mapping[polls[i].ID]
	}

	return polls, nil
}

func (v *GormRepository) ListExpiredPolls(ctx context.Context, now time.Time) ([]models.Poll, error) {
	var polls []models.Poll
	err := v.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.PollStatusActive, now).
		Find(&polls).Error
	return polls, err
}

// lockPoll loads the poll row with FOR UPDATE inside tx.
func lockPoll(tx *gorm.DB, id string) (models.Poll, error) {
	var poll models.Poll
	if err := preloadQuestions(tx.Clauses(clause.Locking{Strength: "UPDATE"})).
		Where("id = ?", id).
		First(&poll).Error; err != nil {
		return poll, notFound(err)
	}
	return poll, nil
}

func (v *GormRepository) UpdatePoll(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error) {
	var out models.Poll
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poll, err := lockPoll(tx, id)
		if err != nil {
			return err
		}
		out = poll
		if err := mutate(&poll); err != nil {
			return err
		}
		poll.ID = id
		if err := tx.Omit(clause.Associations).Save(&poll).Error; err != nil {
			return err
		}
		out = poll
		return nil
	})
	return out, err
}

func (v *GormRepository) ReplaceQuestions(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error) {
	var out models.Poll
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poll, err := lockPoll(tx, id)
		if err != nil {
			return err
		}
		out = poll
		if err := mutate(&poll); err != nil {
			return err
		}
		poll.ID = id
		if err := tx.Where("poll_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		for i := range poll.Questions {
			poll.Questions[i].PollID = id
		}
		if len(poll.Questions) > 0 {
			if err := tx.Create(&poll.Questions).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(&poll).Error; err != nil {
			return err
		}
		out = poll
		return nil
	})
	return out, err
}

func (v *GormRepository) DeletePoll(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Poll{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (v *GormRepository) InsertResponse(ctx context.Context, resp *models.Response, guard func(poll models.Poll) error) error {
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poll, err := lockPoll(tx, resp.PollID)
		if err != nil {
			return err
		}
		if err := guard(poll); err != nil {
			return err
		}
		if err := tx.Create(resp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrAlreadyResponded
			}
			return fmt.Errorf("unable to save response: %w", err)
		}
		return nil
	})
}

func (v *GormRepository) ListResponses(ctx context.Context, pollID string) ([]models.Response, error) {
	var count int64
	if err := v.db.WithContext(ctx).Model(&models.Poll{}).Where("id = ?", pollID).Count(&count).Error; err != nil {
		return nil, err
	} else if count == 0 {
		return nil, models.ErrNotFound
	}

	var responses []models.Response
	err := v.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("submitted_at ASC, id ASC").
		Find(&responses).Error
	return responses, err
}

func (v *GormRepository) GetResponse(ctx context.Context, pollID, responseID string) (models.Response, error) {
	var resp models.Response
	err := v.db.WithContext(ctx).
		Where("poll_id = ? AND id = ?", pollID, responseID).
		First(&resp).Error
	return resp, notFound(err)
}

func (v *GormRepository) CountResponses(ctx context.Context, pollID string) (int64, error) {
	var count int64
	err := v.db.WithContext(ctx).Model(&models.Response{}).Where("poll_id = ?", pollID).Count(&count).Error
	return count, err
}

func (v *GormRepository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := v.db.WithContext(ctx).Model(&models.Poll{}).Count(&stats.Polls).Error; err != nil {
		return stats, err
	}
	if err := v.db.WithContext(ctx).Model(&models.Response{}).Count(&stats.Responses).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
