package service

import (
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
)

const costDateLayout = "2006-01-02"

// MarkCostsDirty 登记一笔影响历史成本的变更，记下需要回补重算的最早日期。
// 只登记早于今天的日期：今天的数据本来就会被下一次例行重算覆盖。
// 已有登记时取两者中更早的一天。
func (s *CostService) MarkCostsDirty(changedAt time.Time) error {
	date := models.DateOf(changedAt, s.loc)
	if !date.Before(s.Today()) {
		return nil
	}
	stored, ok, err := s.settingRepo.Get(constants.SettingCostUpdateStartDate)
	if err != nil {
		return err
	}
	if ok {
		existing, err := time.Parse(costDateLayout, stored)
		if err == nil && !date.Before(existing) {
			return nil
		}
	}
	if err := s.settingRepo.Set(constants.SettingCostUpdateStartDate, date.Format(costDateLayout)); err != nil {
		return err
	}
	logger.Infow("cost_recompute_scheduled", "start_date", date.Format(costDateLayout))
	return nil
}

// RunPendingRecompute 执行例行成本重算：
// 从登记的起算日（没有登记则从今天）逐日重算原料成本直到今天，
// 再重算今天的产品成本。登记不在这里清除：重算本身写前比对、可
// 反复执行，保留登记让每次例行重算都从最早的脏日期自愈式重走。
func (s *CostService) RunPendingRecompute() error {
	start := s.Today()
	stored, ok, err := s.settingRepo.Get(constants.SettingCostUpdateStartDate)
	if err != nil {
		return err
	}
	if ok {
		parsed, err := time.Parse(costDateLayout, stored)
		if err != nil {
			logger.Warnw("cost_start_date_invalid", "value", stored)
		} else {
			start = parsed
		}
	}
	return s.RecomputeFrom(start)
}

// ClearDirtyThrough 手动重算覆盖到 start 起的全部日期后调用，
// 登记的起算日已被覆盖（不早于 start）时清除登记。
func (s *CostService) ClearDirtyThrough(start time.Time) error {
	stored, ok, err := s.settingRepo.Get(constants.SettingCostUpdateStartDate)
	if err != nil || !ok {
		return err
	}
	parsed, err := time.Parse(costDateLayout, stored)
	if err == nil && models.DateOf(start, time.UTC).After(parsed) {
		return nil
	}
	return s.settingRepo.Delete(constants.SettingCostUpdateStartDate)
}

// RecomputeFrom 从指定日期逐日重算原料成本直到今天，随后重算产品成本。
// 起始日晚于今天是调用方错误。
func (s *CostService) RecomputeFrom(start time.Time) error {
	today := s.Today()
	start = models.DateOf(start, time.UTC)
	if start.After(today) {
		return ErrRecomputeDateInFuture
	}
	for date := start; !date.After(today); date = models.NextDate(date) {
		if err := s.RecomputeMaterialCosts(date); err != nil {
			return err
		}
	}
	return s.RecomputeProductCosts()
}
