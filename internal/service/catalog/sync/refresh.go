package sync

import (
	"context"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// refreshTarget 갱신 대상 하나입니다. record가 nil이면 로컬에 없는 코드입니다.
type refreshTarget struct {
	code   string
	record *model.Experience
}

// Refresh 로컬 레코드를 업스트림의 최신 정보로 부분 갱신합니다.
//
// 업스트림에서 판매 중단(또는 404)으로 확인된 상품은 로컬 레코드를 삭제하고 Removed로 보고합니다.
// 슬러그, 국가, 분류는 갱신하지 않습니다. progress가 nil이 아니면 상태가 전이될 때마다 호출됩니다.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest, progress ProgressFunc) (result *RefreshResult, err error) {
	if !req.All && len(req.Codes) == 0 {
		return nil, ErrEmptyRequest
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	r := s.startRun(OpRefresh, applog.Fields{"all": req.All, "requested": len(req.Codes)})
	result = &RefreshResult{
		RunID:   r.id,
		Updated: []ItemResult{},
		Removed: []ItemResult{},
		Failed:  []ItemResult{},
	}
	defer func() {
		s.finishRun(r, err, applog.Fields{
			"updated": len(result.Updated),
			"removed": len(result.Removed),
			"failed":  len(result.Failed),
		})
	}()

	targets, err := s.refreshTargets(ctx, req)
	if err != nil {
		return result, err
	}

	total := len(targets)
	emit := func(i int, t refreshTarget, state RefreshState, reason string) {
		ev := ProgressEvent{ProductCode: t.code, State: state, Reason: reason, Index: i + 1, Total: total, At: s.now()}
		if t.record != nil {
			ev.Slug = t.record.Slug
		}
		progress(ev)
	}

	for i, t := range targets {
		emit(i, t, StatePending, "")
	}

	for i, t := range targets {
		if t.record == nil {
			item := ItemResult{ProductCode: t.code, Reason: ReasonNotFoundLocally}
			result.Failed = append(result.Failed, item)
			s.item(r, OutcomeFailed)
			emit(i, t, StateFailed, item.Reason)
			continue
		}

		if err := s.wait(ctx); err != nil {
			return result, err
		}

		item, state := s.refreshOne(ctx, r, t, func(state RefreshState) { emit(i, t, state, "") })
		switch state {
		case StateUpdated:
			result.Updated = append(result.Updated, item)
			s.item(r, OutcomeUpdated)
		case StateRemoved:
			result.Removed = append(result.Removed, item)
			s.item(r, OutcomeRemoved)
		default:
			result.Failed = append(result.Failed, item)
			s.item(r, OutcomeFailed)
		}
		emit(i, t, state, item.Reason)
	}

	return result, nil
}

// refreshTargets 요청을 갱신 대상 목록으로 변환합니다.
func (s *Service) refreshTargets(ctx context.Context, req RefreshRequest) ([]refreshTarget, error) {
	if req.All {
		records, err := s.repo.Find(ctx, repository.Filter{Partner: model.PartnerViator}, repository.ListOptions{SortBy: "createdAt", SortOrder: repository.SortAsc})
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "갱신 대상 조회에 실패하였습니다")
		}

		targets := make([]refreshTarget, 0, len(records))
		for _, e := range records {
			if code := e.ResolvedProductCode(); code != "" {
				targets = append(targets, refreshTarget{code: code, record: e})
			}
		}
		return targets, nil
	}

	targets := make([]refreshTarget, 0, len(req.Codes))
	seen := make(map[string]struct{}, len(req.Codes))
	for _, raw := range req.Codes {
		code := model.NormalizeProductCode(raw)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		e, err := s.repo.FindByProductCode(ctx, code)
		if err != nil {
			if !apperrors.Is(err, apperrors.NotFound) {
				return nil, apperrors.Wrap(err, apperrors.System, "갱신 대상 조회에 실패하였습니다")
			}
			e = nil
		}
		targets = append(targets, refreshTarget{code: code, record: e})
	}
	return targets, nil
}

func (s *Service) refreshOne(ctx context.Context, r *run, t refreshTarget, transition func(RefreshState)) (ItemResult, RefreshState) {
	s.locks.Lock(t.code)
	defer s.locks.Unlock(t.code)

	log := r.log.WithFields(applog.Fields{"product_code": t.code, "slug": t.record.Slug})
	item := ItemResult{ProductCode: t.code, Slug: t.record.Slug, Title: t.record.Title}

	transition(StateFetchingDetail)

	detail, err := s.client.GetProductDetails(ctx, t.code)
	if err != nil {
		return s.failItem(log, item, ReasonUpstreamFailed, err), StateFailed
	}

	if !detail.IsActive() {
		if err := s.repo.DeleteBySlug(ctx, t.record.Slug); err != nil && !apperrors.Is(err, apperrors.NotFound) {
			return s.failItem(log, item, ReasonRepositoryFailed, err), StateFailed
		}
		item.Reason = ReasonInactive
		if detail.Status == viator.StatusNotFound {
			item.Reason = ReasonUpstreamNotFound
		}
		log.WithField("status", detail.Status).Info("판매 중단된 상품: 로컬 레코드를 삭제하였습니다")
		return item, StateRemoved
	}

	transition(StateUpdating)

	price, priceOK := s.client.GetProductPricing(ctx, t.code)

	opts := []normalizer.Option{normalizer.WithSlug(t.record.Slug)}
	if priceOK && price > 0 {
		opts = append(opts, normalizer.WithPriceOverride(price))
	}

	e, err := s.normalizer.Transform(detail.Raw, opts...)
	if err != nil {
		return s.failItem(log, item, ReasonNormalizeFailed, err), StateFailed
	}

	// 가격 스케줄 조회에 실패하면 저장된 가격을 유지합니다.
	if !(priceOK && price > 0) && t.record.PriceFrom > 0 {
		e.PriceFrom = t.record.PriceFrom
		e.PriceRange = model.PriceRangeFor(e.PriceFrom)
		e.PriceSource = model.PriceSourceStored
	}

	fields := patchFields(model.RefreshFields, e)
	if t.record.ProductCode == "" {
		fields = append(fields, model.FieldProductCode)
	}

	if err := s.repo.UpdateBySlug(ctx, t.record.Slug, model.NewPatch(e, fields, s.now())); err != nil {
		return s.failItem(log, item, ReasonRepositoryFailed, err), StateFailed
	}
	item.Title = e.Title

	log.WithFields(applog.Fields{
		"price_from":   e.PriceFrom,
		"price_source": e.PriceSource,
		"fields":       len(fields),
	}).Info("상품 갱신 완료")

	return item, StateUpdated
}

// patchFields 업스트림 값이 비어 있거나 대체값인 필드를 제외하여, 저장된 실제 값을 덮어쓰지 않도록 합니다.
func patchFields(base []model.Field, e *model.Experience) []model.Field {
	var excluded []model.Field
	if !e.HasRating() {
		excluded = append(excluded, model.FieldAverageRating, model.FieldTotalReviews)
	}
	if !e.HasRealImage() {
		excluded = append(excluded, model.FieldImages, model.FieldCoverImage)
	}
	if e.PriceSource == model.PriceSourceDefault {
		excluded = append(excluded, model.FieldPriceFrom, model.FieldPriceRange, model.FieldPriceSource)
	}
	return model.Without(base, excluded...)
}
