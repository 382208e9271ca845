package usecase

import (
	"context"
)

// valuationUsecase は評価額の再計算を実装します。
// 株式の価格が変更されたとき、その株式を保有するすべての株主について
// ポートフォリオ評価額を全保有からゼロベースで再計算します。
// 差分更新ではなく全再計算を選んでいるのは、集計が複数銘柄にまたがる一方で
// モデルが保有ごとの旧価格を保持しないためです。
type valuationUsecase struct {
	uow   UnitOfWork
	cache PortfolioCache
}

// NewValuationUsecase はvaluationUsecaseの新しいインスタンスを生成します。
// cacheはnil可で、その場合キャッシュ無効化は行われません。
func NewValuationUsecase(uow UnitOfWork, cache PortfolioCache) *valuationUsecase {
	return &valuationUsecase{uow: uow, cache: cache}
}

// RecalculateForShare は指定された株式を保有するすべての株主の
// PortfolioValueを再計算します。進行中のBuy/Sellとは独立した
// 1つのトランザクションとして実行されます。
func (u *valuationUsecase) RecalculateForShare(ctx context.Context, shareID uint) error {
	var affected []uint
	err := u.uow.Do(ctx, func(l Ledger) error {
		affected = affected[:0]

		ids, err := l.Holdings().ListShareholderIDs(ctx, shareID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			shareholder, err := l.Shareholders().FindByID(ctx, id)
			if err != nil {
				return err
			}
			total, err := l.Holdings().PortfolioValue(ctx, id)
			if err != nil {
				return err
			}
			shareholder.PortfolioValue = total
			if err := l.Shareholders().Save(ctx, shareholder); err != nil {
				return err
			}
			affected = append(affected, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if u.cache != nil {
		for _, id := range affected {
			_ = u.cache.Invalidate(ctx, id)
		}
	}
	return nil
}
