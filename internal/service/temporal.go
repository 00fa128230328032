package service

import "time"

// latestAsOf 在按时间升序的序列里取生效时间不晚于 ref 的最后一条；
// 若所有记录都晚于 ref，则回退到最早一条（订单早于首条价格时按首价计）。
// 空序列返回 ErrSeriesNotFound。
func latestAsOf[T any](series []T, ref time.Time, at func(T) time.Time) (T, error) {
	var zero T
	if len(series) == 0 {
		return zero, ErrSeriesNotFound
	}
	picked := series[0]
	found := false
	for _, item := range series {
		if at(item).After(ref) {
			break
		}
		picked = item
		found = true
	}
	if !found {
		// 全部晚于 ref，回退到最早一条
		return series[0], nil
	}
	return picked, nil
}

// latestBefore 取生效时间严格早于 ref 的最后一条，否则回退到最早一条。
// 成本消耗按下单日前一笔成本计价，避免同日自引用。
func latestBefore[T any](series []T, ref time.Time, at func(T) time.Time) (T, error) {
	var zero T
	if len(series) == 0 {
		return zero, ErrSeriesNotFound
	}
	picked := series[0]
	found := false
	for _, item := range series {
		if !at(item).Before(ref) {
			break
		}
		picked = item
		found = true
	}
	if !found {
		return series[0], nil
	}
	return picked, nil
}
