package service

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/repository/interfaces"
	"strings"
)

const (
	maxMoodNotesLen  = 500
	moodHistoryLimit = 30
)

func isValidMarketCondition(c string) bool {
	switch c {
	case model.MarketConditionBullish, model.MarketConditionBearish,
		model.MarketConditionNeutral, model.MarketConditionVolatile:
		return true
	}
	return false
}

type MoodService struct {
	repo interfaces.MoodRepository
}

func NewMoodService(repo interfaces.MoodRepository) *MoodService {
	return &MoodService{repo}
}

// CreateEntry 校验并创建一条心情日记
func (s *MoodService) CreateEntry(entry *model.MoodEntry) error {
	if entry.MoodScore < 1 || entry.MoodScore > 10 {
		return errors.New(errors.ErrValidation, "Mood score must be between 1 and 10")
	}
	if len(entry.Emotions) == 0 {
		return errors.New(errors.ErrValidation, "At least one emotion is required")
	}
	if !isValidMarketCondition(entry.MarketCondition) {
		return errors.New(errors.ErrValidation, "Invalid market condition")
	}
	entry.Notes = strings.TrimSpace(entry.Notes)
	if len(entry.Notes) > maxMoodNotesLen {
		return errors.New(errors.ErrValidation, "Notes must be 500 characters or less")
	}

	if err := s.repo.Create(entry); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建心情记录失败", err)
	}
	return nil
}

// ListEntries 获取用户最近的心情记录，最新的在前
func (s *MoodService) ListEntries(userID int) ([]*model.MoodEntry, error) {
	entries, err := s.repo.ListByUser(userID, moodHistoryLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取心情记录失败", err)
	}
	if entries == nil {
		entries = []*model.MoodEntry{}
	}
	return entries, nil
}

// LatestEntry 获取用户最近一条心情记录
func (s *MoodService) LatestEntry(userID int) (*model.MoodEntry, error) {
	entry, err := s.repo.LatestByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取心情记录失败", err)
	}
	if entry == nil {
		return nil, errors.New(errors.ErrMoodNotFound, "No mood entries yet")
	}
	return entry, nil
}
