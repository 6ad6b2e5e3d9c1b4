package sync

import (
	"context"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// DeleteByCodes 상품 코드에 해당하는 로컬 레코드를 삭제합니다. 업스트림은 호출하지 않습니다.
func (s *Service) DeleteByCodes(ctx context.Context, codes []string) (result *DeleteResult, err error) {
	if len(codes) == 0 {
		return nil, ErrEmptyRequest
	}

	r := s.startRun(OpDelete, applog.Fields{"requested": len(codes)})
	result = &DeleteResult{
		RunID:    r.id,
		Deleted:  []ItemResult{},
		NotFound: []string{},
	}
	defer func() {
		s.finishRun(r, err, applog.Fields{
			"deleted":   len(result.Deleted),
			"not_found": len(result.NotFound),
			"failed":    len(result.Failed),
		})
	}()

	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		code := model.NormalizeProductCode(raw)
		if code == "" {
			result.Failed = append(result.Failed, ItemResult{ProductCode: raw, Reason: ReasonInvalidCode})
			s.item(r, OutcomeFailed)
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		item, outcome := s.deleteOne(ctx, r, code)
		switch outcome {
		case OutcomeDeleted:
			result.Deleted = append(result.Deleted, item)
		case OutcomeNotFound:
			result.NotFound = append(result.NotFound, code)
		default:
			result.Failed = append(result.Failed, item)
		}
		s.item(r, outcome)
	}

	return result, nil
}

func (s *Service) deleteOne(ctx context.Context, r *run, code string) (ItemResult, Outcome) {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	log := r.log.WithField("product_code", code)
	item := ItemResult{ProductCode: code}

	e, err := s.repo.FindByProductCode(ctx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return item, OutcomeNotFound
		}
		return s.failItem(log, item, ReasonRepositoryFailed, err), OutcomeFailed
	}
	item.Slug = e.Slug
	item.Title = e.Title

	if err := s.repo.DeleteBySlug(ctx, e.Slug); err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return item, OutcomeNotFound
		}
		return s.failItem(log, item, ReasonRepositoryFailed, err), OutcomeFailed
	}

	log.WithField("slug", e.Slug).Info("상품 삭제 완료")

	return item, OutcomeDeleted
}
