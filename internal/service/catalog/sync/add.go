package sync

import (
	"context"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// AddByCodes 상품 코드로 상세 정보를 조회하여 신규 레코드를 추가합니다.
//
// 요청 안에서 대소문자만 다른 코드가 반복되면 첫 번째 항목만 처리하고 나머지는 "duplicate in request"로 건너뜁니다.
// 이미 저장된 상품은 업스트림 호출 없이 "already exists"로 건너뜁니다.
// 실제 이미지, 평점, 가격 중 하나라도 없는 상품은 저장하지 않고 사유와 함께 실패로 기록합니다.
func (s *Service) AddByCodes(ctx context.Context, codes []string) (result *AddResult, err error) {
	if len(codes) == 0 {
		return nil, ErrEmptyRequest
	}

	r := s.startRun(OpAdd, applog.Fields{"requested": len(codes)})
	result = &AddResult{
		RunID:   r.id,
		Added:   []ItemResult{},
		Skipped: []ItemResult{},
		Failed:  []ItemResult{},
	}
	defer func() {
		s.finishRun(r, err, applog.Fields{
			"added":   len(result.Added),
			"skipped": len(result.Skipped),
			"failed":  len(result.Failed),
		})
	}()

	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := model.NormalizeProductCode(raw)
		if code == "" {
			result.Failed = append(result.Failed, ItemResult{ProductCode: raw, Reason: ReasonInvalidCode})
			s.item(r, OutcomeFailed)
			continue
		}
		if _, dup := seen[code]; dup {
			result.Skipped = append(result.Skipped, ItemResult{ProductCode: code, Reason: ReasonDuplicateInBatch})
			s.item(r, OutcomeSkipped)
			continue
		}
		seen[code] = struct{}{}

		if err := s.wait(ctx); err != nil {
			return result, err
		}

		item, outcome := s.addOne(ctx, r, code)
		switch outcome {
		case OutcomeAdded:
			result.Added = append(result.Added, item)
		case OutcomeSkipped:
			result.Skipped = append(result.Skipped, item)
		default:
			result.Failed = append(result.Failed, item)
		}
		s.item(r, outcome)
	}

	return result, nil
}

func (s *Service) addOne(ctx context.Context, r *run, code string) (ItemResult, Outcome) {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	log := r.log.WithField("product_code", code)
	item := ItemResult{ProductCode: code}

	existing, err := s.repo.FindByProductCode(ctx, code)
	if err == nil {
		item.Slug = existing.Slug
		item.Title = existing.Title
		item.Reason = ReasonAlreadyExists
		log.WithField("slug", existing.Slug).Info("이미 등록된 상품: 건너뜁니다")
		return item, OutcomeSkipped
	}
	if !apperrors.Is(err, apperrors.NotFound) {
		return s.failItem(log, item, ReasonRepositoryFailed, err), OutcomeFailed
	}

	detail, err := s.client.GetProductDetails(ctx, code)
	if err != nil {
		return s.failItem(log, item, ReasonUpstreamFailed, err), OutcomeFailed
	}
	switch detail.Status {
	case viator.StatusActive:
	case viator.StatusNotFound:
		return s.failItem(log, item, ReasonUpstreamNotFound, nil), OutcomeFailed
	default:
		return s.failItem(log, item, ReasonInactive, nil), OutcomeFailed
	}

	var opts []normalizer.Option
	if price, ok := s.client.GetProductPricing(ctx, code); ok && price > 0 {
		opts = append(opts, normalizer.WithPriceOverride(price))
	}

	e, err := s.normalizer.Transform(detail.Raw, opts...)
	if err != nil {
		return s.failItem(log, item, ReasonNormalizeFailed, err), OutcomeFailed
	}
	item.Slug = e.Slug
	item.Title = e.Title

	if reason := rejectReason(e); reason != "" {
		return s.failItem(log, item, reason, nil), OutcomeFailed
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		if apperrors.Is(err, apperrors.Conflict) {
			item.Reason = ReasonAlreadyExists
			log.WithField("slug", e.Slug).Info("같은 슬러그의 레코드가 이미 존재: 건너뜁니다")
			return item, OutcomeSkipped
		}
		return s.failItem(log, item, ReasonRepositoryFailed, err), OutcomeFailed
	}

	log.WithFields(applog.Fields{
		"slug":         e.Slug,
		"price_from":   e.PriceFrom,
		"price_source": e.PriceSource,
	}).Info("상품 추가 완료")

	return item, OutcomeAdded
}

// rejectReason 신규 등록 조건(실제 이미지, 평점, 가격)을 만족하지 않으면 사유를 반환합니다.
func rejectReason(e *model.Experience) string {
	switch {
	case !e.HasRealImage():
		return ReasonMissingImage
	case !e.HasRating():
		return ReasonMissingRating
	case !e.HasRealPrice():
		return ReasonMissingPrice
	}
	return ""
}

func (s *Service) failItem(log *applog.Entry, item ItemResult, reason string, err error) ItemResult {
	item.Reason = reason
	if err != nil {
		item.Reason = reason + ": " + err.Error()
		log = log.WithError(err)
	}
	log.WithField("reason", reason).Warn("상품 처리 실패")
	return item
}
